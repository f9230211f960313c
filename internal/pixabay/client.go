package pixabay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"picgrip/internal/domain"
)

// DefaultBaseURL is the public Pixabay API endpoint.
const DefaultBaseURL = "https://pixabay.com/api/"

// maxResults is the API's result window: paging past it returns an error,
// so reported pages are capped accordingly.
const maxResults = 500

// APIError is a failure reported by the API itself, as opposed to a
// transport error or cancellation.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Options configures a Client.
type Options struct {
	BaseURL        string  // defaults to DefaultBaseURL
	Key            string  // API key, required for SearchPhotos
	KeywordsURL    string  // optional suggestion list endpoint
	PerPage        int     // results per page, defaults to 20
	Timeout        time.Duration
	RequestsPerSec float64 // defaults to 2
	CachePages     int     // LRU page cache size, defaults to 64
}

// Client fetches photo pages and keyword suggestions over HTTP. Requests
// are rate limited and successfully fetched pages are kept in a small LRU
// cache so revisiting a page does not hit the network again.
type Client struct {
	baseURL     string
	key         string
	keywordsURL string
	perPage     int
	client      *http.Client
	limiter     *rate.Limiter
	pages       *lru.Cache[pageKey, domain.PhotoPage]
	logger      *zap.Logger
}

type pageKey struct {
	keyword string
	page    int
}

// NewClient creates a Client from opts.
func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 20
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 2
	}
	if opts.CachePages <= 0 {
		opts.CachePages = 64
	}

	pages, err := lru.New[pageKey, domain.PhotoPage](opts.CachePages)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	return &Client{
		baseURL:     opts.BaseURL,
		key:         opts.Key,
		keywordsURL: opts.KeywordsURL,
		perPage:     opts.PerPage,
		client:      &http.Client{Timeout: opts.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
		pages:       pages,
		logger:      logger,
	}, nil
}

type searchResponse struct {
	TotalHits int   `json:"totalHits"`
	Hits      []hit `json:"hits"`
}

type hit struct {
	ID            int64  `json:"id"`
	Tags          string `json:"tags"`
	User          string `json:"user"`
	Likes         int    `json:"likes"`
	Downloads     int    `json:"downloads"`
	PreviewURL    string `json:"previewURL"`
	LargeImageURL string `json:"largeImageURL"`
	PageURL       string `json:"pageURL"`
}

// SearchPhotos fetches one page of results for keyword.
func (c *Client) SearchPhotos(ctx context.Context, keyword string, page int) (domain.PhotoPage, error) {
	key := pageKey{keyword: keyword, page: page}
	if cached, ok := c.pages.Get(key); ok {
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.PhotoPage{}, err
	}

	q := url.Values{}
	q.Set("key", c.key)
	q.Set("q", keyword)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("image_type", "photo")
	q.Set("safesearch", "true")

	var resp searchResponse
	if err := c.getJSON(ctx, c.baseURL+"?"+q.Encode(), &resp); err != nil {
		return domain.PhotoPage{}, err
	}

	result := domain.PhotoPage{
		Photos:     make([]domain.Photo, 0, len(resp.Hits)),
		TotalPages: c.totalPages(resp.TotalHits),
	}
	for _, h := range resp.Hits {
		result.Photos = append(result.Photos, domain.Photo{
			ID:         h.ID,
			Tags:       h.Tags,
			User:       h.User,
			Likes:      h.Likes,
			Downloads:  h.Downloads,
			PreviewURL: h.PreviewURL,
			LargeURL:   h.LargeImageURL,
			PageURL:    h.PageURL,
		})
	}

	c.pages.Add(key, result)
	c.logger.Debug("page fetched",
		zap.String("keyword", keyword),
		zap.Int("page", page),
		zap.Int("photos", len(result.Photos)),
		zap.Int("total_pages", result.TotalPages))
	return result, nil
}

// FetchKeywords fetches the suggestion list. It fails when no suggestion
// endpoint is configured; callers treat suggestions as best effort.
func (c *Client) FetchKeywords(ctx context.Context) ([]domain.Keyword, error) {
	if c.keywordsURL == "" {
		return nil, fmt.Errorf("no keyword suggestion endpoint configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var words []string
	if err := c.getJSON(ctx, c.keywordsURL, &words); err != nil {
		return nil, err
	}

	keywords := make([]domain.Keyword, 0, len(words))
	for _, w := range words {
		keywords = append(keywords, domain.Keyword{Word: w})
	}
	return keywords, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// totalPages converts the reported hit count to a page count, honoring
// the API's result window.
func (c *Client) totalPages(totalHits int) int {
	if totalHits > maxResults {
		totalHits = maxResults
	}
	return (totalHits + c.perPage - 1) / c.perPage
}
