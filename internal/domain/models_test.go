package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photosWithIDs(ids ...int64) []Photo {
	photos := make([]Photo, 0, len(ids))
	for _, id := range ids {
		photos = append(photos, Photo{ID: id})
	}
	return photos
}

func ids(photos []Photo) []int64 {
	out := make([]int64, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.ID)
	}
	return out
}

func TestMergePhotosDropsOverlap(t *testing.T) {
	t.Parallel()

	prior := photosWithIDs(1, 2, 3, 4, 5)
	next := photosWithIDs(4, 5, 6, 7)

	merged := MergePhotos(prior, next)

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, ids(merged))
}

func TestMergePhotosPreservesFirstOccurrenceOrder(t *testing.T) {
	t.Parallel()

	prior := photosWithIDs(9, 3, 7)
	next := photosWithIDs(7, 1, 3, 2)

	merged := MergePhotos(prior, next)

	assert.Equal(t, []int64{9, 3, 7, 1, 2}, ids(merged))
}

func TestMergePhotosDedupesWithinOnePage(t *testing.T) {
	t.Parallel()

	merged := MergePhotos(nil, photosWithIDs(1, 1, 2, 2, 3))

	assert.Equal(t, []int64{1, 2, 3}, ids(merged))
}

func TestMergePhotosEmptyInputs(t *testing.T) {
	t.Parallel()

	require.Empty(t, MergePhotos(nil, nil))
	assert.Equal(t, []int64{1, 2}, ids(MergePhotos(photosWithIDs(1, 2), nil)))
	assert.Equal(t, []int64{1, 2}, ids(MergePhotos(nil, photosWithIDs(1, 2))))
}

func TestMergePhotosKeepsFirstSeenFields(t *testing.T) {
	t.Parallel()

	prior := []Photo{{ID: 1, Tags: "cat"}}
	next := []Photo{{ID: 1, Tags: "kitten"}, {ID: 2, Tags: "dog"}}

	merged := MergePhotos(prior, next)

	require.Len(t, merged, 2)
	assert.Equal(t, "cat", merged[0].Tags)
	assert.Equal(t, "dog", merged[1].Tags)
}
