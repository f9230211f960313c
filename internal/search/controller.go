package search

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"picgrip/internal/domain"
	"picgrip/internal/eventbus"
)

// Fetcher is the remote collaborator the controller drives. SearchPhotos
// returns one result page; FetchKeywords returns the startup suggestion
// list. Both honor context cancellation.
type Fetcher interface {
	SearchPhotos(ctx context.Context, keyword string, page int) (domain.PhotoPage, error)
	FetchKeywords(ctx context.Context) ([]domain.Keyword, error)
}

// Controller owns the search screen state machine. It holds exactly one
// current SearchState and at most one in-flight fetch job; starting a new
// search or page load cancels the previous job before anything else is
// published, so a superseded pipeline can never overwrite a fresh state.
type Controller struct {
	bus     eventbus.EventBus
	fetcher Fetcher
	logger  *zap.Logger

	keywords *mailbox

	mu    sync.Mutex
	state domain.SearchState
	job   *job

	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// job is the cancellation handle for the single in-flight fetch pipeline.
// A pipeline may only publish while it is still the controller's current
// job.
type job struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates a controller and subscribes it to the command
// events on the bus. Call Start before issuing commands.
func NewController(bus eventbus.EventBus, fetcher Fetcher, logger *zap.Logger) *Controller {
	c := &Controller{
		bus:      bus,
		fetcher:  fetcher,
		logger:   logger,
		keywords: newMailbox(),
		state:    domain.Idling{},
	}

	bus.Subscribe(eventbus.EventSearchRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchRequestedEvent); ok {
			c.SearchPhotos(event.Keyword)
		}
	})
	bus.Subscribe(eventbus.EventLoadNextPageRequested, func(e eventbus.DomainEvent) {
		c.LoadNextPage()
	})
	bus.Subscribe(eventbus.EventResetRequested, func(e eventbus.DomainEvent) {
		c.ResetSearch()
	})

	return c
}

// Start launches the keyword consumer and the one-shot suggestion fetch.
func (c *Controller) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.runCtx = runCtx
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(2)
	go c.run(runCtx)
	go c.loadKeywords(runCtx)
}

// Dispose cancels all outstanding work and releases the keyword channel.
// It blocks until every pipeline goroutine has exited.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	if c.job != nil {
		c.job.cancel()
		c.job = nil
	}
	c.mu.Unlock()

	c.keywords.Close()
	c.wg.Wait()
}

// Current returns the current published state.
func (c *Controller) Current() domain.SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SearchPhotos enqueues a search for keyword. It never blocks; rapid
// calls are conflated so only the most recent keyword reaches the
// consumer.
func (c *Controller) SearchPhotos(keyword string) {
	c.keywords.Put(keyword)
}

// ResetSearch cancels any in-flight fetch and returns to Idling.
func (c *Controller) ResetSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.job != nil {
		c.job.cancel()
		c.job = nil
	}
	c.publishLocked(domain.Idling{})
}

// LoadNextPage requests the page after the last fetched one, or retries a
// failed page. It is a no-op unless the current state carries pagination
// progress, or when the last page has already been fetched.
func (c *Controller) LoadNextPage() {
	c.mu.Lock()

	var keyword string
	var photos []domain.Photo
	var nextPage, totalPages int

	switch s := c.state.(type) {
	case domain.PhotosFetched:
		keyword, photos = s.Keyword, s.Photos
		nextPage, totalPages = s.Page+1, s.TotalPages
	case domain.LoadPageFailed:
		keyword, photos = s.Keyword, s.Photos
		nextPage, totalPages = s.FailedPage, s.TotalPages
	default:
		c.mu.Unlock()
		return
	}

	if nextPage > totalPages || c.runCtx == nil {
		c.mu.Unlock()
		return
	}

	j := c.replaceJobLocked()
	c.publishLocked(domain.LoadingNextPage{Photos: photos})
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		page, err := c.fetcher.SearchPhotos(j.ctx, keyword, nextPage)
		c.finishNextPage(j, keyword, photos, nextPage, totalPages, page, err)
	}()
}

// run consumes keywords one at a time; each accepted keyword supersedes
// whatever pipeline is currently in flight.
func (c *Controller) run(ctx context.Context) {
	defer c.wg.Done()

	for {
		keyword, ok := c.keywords.Get(ctx)
		if !ok {
			return
		}
		c.startSearch(keyword)
	}
}

func (c *Controller) startSearch(keyword string) {
	c.mu.Lock()
	j := c.replaceJobLocked()
	c.publishLocked(domain.Searching{Keyword: keyword})
	c.mu.Unlock()

	c.logger.Debug("search started", zap.String("keyword", keyword))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		page, err := c.fetcher.SearchPhotos(j.ctx, keyword, 1)
		c.finishSearch(j, keyword, page, err)
	}()
}

func (c *Controller) finishSearch(j *job, keyword string, page domain.PhotoPage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.releaseJobLocked(j) {
		return // superseded: publish nothing
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("search failed",
			zap.String("keyword", keyword), zap.Error(err))
		c.publishLocked(domain.SearchFailed{Keyword: keyword})
		return
	}
	if page.TotalPages == 0 {
		c.publishLocked(domain.NotFound{Keyword: keyword})
		return
	}
	c.publishLocked(domain.PhotosFetched{
		Keyword:    keyword,
		Photos:     domain.MergePhotos(nil, page.Photos),
		Page:       1,
		TotalPages: page.TotalPages,
	})
}

func (c *Controller) finishNextPage(j *job, keyword string, prior []domain.Photo, nextPage, totalPages int, page domain.PhotoPage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.releaseJobLocked(j) {
		return // superseded: publish nothing
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("page load failed",
			zap.String("keyword", keyword), zap.Int("page", nextPage), zap.Error(err))
		c.publishLocked(domain.LoadPageFailed{
			Keyword:    keyword,
			Photos:     prior,
			FailedPage: nextPage,
			TotalPages: totalPages,
			Cause:      err,
		})
		return
	}
	reported := page.TotalPages
	if reported < nextPage {
		// The API can shrink its count between requests; the current
		// page must never sit past the reported end.
		reported = nextPage
	}
	c.publishLocked(domain.PhotosFetched{
		Keyword:    keyword,
		Photos:     domain.MergePhotos(prior, page.Photos),
		Page:       nextPage,
		TotalPages: reported,
	})
}

// loadKeywords fetches the suggestion list once. Failures degrade to an
// empty list; a fetch that loses the race to the user's first search is
// dropped so it never clobbers Searching.
func (c *Controller) loadKeywords(ctx context.Context) {
	defer c.wg.Done()

	keywords, err := c.fetcher.FetchKeywords(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("keyword suggestions unavailable", zap.Error(err))
		keywords = []domain.Keyword{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, idle := c.state.(domain.Idling); idle {
		c.publishLocked(domain.KeywordsLoaded{Keywords: keywords})
	}
}

// replaceJobLocked cancels the current job, if any, and installs a fresh
// one. Must be called with c.mu held.
func (c *Controller) replaceJobLocked() *job {
	if c.job != nil {
		c.job.cancel()
	}
	ctx, cancel := context.WithCancel(c.runCtx)
	j := &job{ctx: ctx, cancel: cancel}
	c.job = j
	return j
}

// releaseJobLocked clears the job slot if j is still current. It reports
// whether j's pipeline is allowed to publish. Must be called with c.mu
// held.
func (c *Controller) releaseJobLocked(j *job) bool {
	if c.job != j {
		return false
	}
	c.job = nil
	j.cancel()
	return true
}

func (c *Controller) publishLocked(state domain.SearchState) {
	c.state = state
	c.bus.Publish(domain.StateChangedEvent{State: state})
}
