package domain

// StateKind identifies a search state variant
type StateKind string

// State kinds
const (
	StateIdling          StateKind = "Idling"
	StateSearching       StateKind = "Searching"
	StatePhotosFetched   StateKind = "PhotosFetched"
	StateNotFound        StateKind = "NotFound"
	StateSearchFailed    StateKind = "SearchFailed"
	StateLoadingNextPage StateKind = "LoadingNextPage"
	StateLoadPageFailed  StateKind = "LoadPageFailed"
	StateKeywordsLoaded  StateKind = "KeywordsLoaded"
)

// SearchState is the single UI-facing state of the search screen.
// Exactly one variant is current at any instant; every transition
// produces a fresh value, superseded values are discarded.
type SearchState interface {
	Kind() StateKind
}

// Idling means no search has been performed yet, or the screen was reset.
type Idling struct{}

func (Idling) Kind() StateKind { return StateIdling }

// Searching means the first-page fetch for Keyword is in flight.
type Searching struct {
	Keyword string
}

func (Searching) Kind() StateKind { return StateSearching }

// PhotosFetched holds all photos accumulated for pages 1..Page, in fetch
// order with later-page duplicates removed.
type PhotosFetched struct {
	Keyword    string
	Photos     []Photo
	Page       int
	TotalPages int
}

func (PhotosFetched) Kind() StateKind { return StatePhotosFetched }

// NotFound means the API reported zero pages for Keyword.
type NotFound struct {
	Keyword string
}

func (NotFound) Kind() StateKind { return StateNotFound }

// SearchFailed means the first-page fetch for Keyword failed.
type SearchFailed struct {
	Keyword string
}

func (SearchFailed) Kind() StateKind { return StateSearchFailed }

// LoadingNextPage means a next-page fetch is in flight; Photos retains the
// already fetched results for display continuity.
type LoadingNextPage struct {
	Photos []Photo
}

func (LoadingNextPage) Kind() StateKind { return StateLoadingNextPage }

// LoadPageFailed means fetching page FailedPage did not succeed. Prior
// photos are retained and a later LoadNextPage retries the same page.
type LoadPageFailed struct {
	Keyword    string
	Photos     []Photo
	FailedPage int
	TotalPages int
	Cause      error
}

func (LoadPageFailed) Kind() StateKind { return StateLoadPageFailed }

// KeywordsLoaded carries the startup keyword suggestions. It is published
// once, best effort, and only while the screen is still idling.
type KeywordsLoaded struct {
	Keywords []Keyword
}

func (KeywordsLoaded) Kind() StateKind { return StateKeywordsLoaded }
