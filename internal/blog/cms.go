// Package blog proxies the external CMS the blog content lives in.
// Content is read-only here; responses are cached in redis so the CMS
// is not hit on every page view.
package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"tastebook/api/internal/config"
	"tastebook/api/internal/models"
)

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrCMSDown      = errors.New("cms unavailable")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *redis.Client
	cacheTTL   time.Duration
	log        zerolog.Logger
}

func NewClient(cfg config.CMSConfig, cache *redis.Client, log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		log:        log,
	}
}

func (c *Client) Posts(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := c.fetchCached(ctx, "cms:posts", "/posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) Post(ctx context.Context, slug string) (models.BlogPost, error) {
	var post models.BlogPost
	if err := c.fetchCached(ctx, "cms:post:"+slug, "/posts/"+slug, &post); err != nil {
		return models.BlogPost{}, err
	}
	return post, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.BlogCategory, error) {
	var categories []models.BlogCategory
	if err := c.fetchCached(ctx, "cms:categories", "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// fetchCached reads through the redis cache: a hit decodes straight
// from redis, a miss hits the CMS and stores the raw body. Cache errors
// degrade to a direct fetch rather than failing the request.
func (c *Client) fetchCached(ctx context.Context, cacheKey, path string, out any) error {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(cached, out); jsonErr == nil {
				return nil
			}
		} else if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Str("key", cacheKey).Msg("cms cache read failed")
		}
	}

	body, err := c.fetch(ctx, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode cms response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, c.cacheTTL).Err(); err != nil {
			c.log.Debug().Err(err).Str("key", cacheKey).Msg("cms cache write failed")
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCMSDown, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrPostNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrCMSDown, resp.StatusCode)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read cms response: %w", err)
	}
	return body.Bytes(), nil
}
