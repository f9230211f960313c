package domain

// Photo represents a single photo returned by the search API.
// Identity is the API-assigned ID; all fields are comparable so photos
// can be compared by value.
type Photo struct {
	ID         int64
	Tags       string
	User       string
	Likes      int
	Downloads  int
	PreviewURL string
	LargeURL   string
	PageURL    string
}

// PhotoPage is one page of search results together with the total number
// of pages the API reports for the keyword.
type PhotoPage struct {
	Photos     []Photo
	TotalPages int
}

// Keyword is a search suggestion shown while no search is active.
type Keyword struct {
	Word     string
	Selected bool
}

// MergePhotos appends next to prior, dropping any photo whose identity
// already appeared. Order of first occurrence is preserved.
func MergePhotos(prior, next []Photo) []Photo {
	merged := make([]Photo, 0, len(prior)+len(next))
	seen := make(map[int64]bool, len(prior)+len(next))
	for _, list := range [][]Photo{prior, next} {
		for _, p := range list {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged = append(merged, p)
		}
	}
	return merged
}
