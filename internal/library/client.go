// Package library consumes the paper-library CRUD API as opaque
// network calls, fronted by a read-through cache that is invalidated on
// every mutating call.
package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/marginalia-app/marginalia/internal/cache"
)

const (
	keyPapers = "papers"
	keyTags   = "tags"
	keyStats  = "stats"
)

func paperKey(id int) string {
	return fmt.Sprintf("paper-%d", id)
}

type Client struct {
	base  string
	token string
	http  *http.Client
	cache *cache.Cache
}

func NewClient(base, token string, c *cache.Cache) *Client {
	return &Client{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
		cache: c,
	}
}

func (c *Client) do(req *http.Request, want int, out any) error {
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, req.URL.Path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusOK, out)
}

// Papers lists all library entries. Reads go through the cache; on a
// live fetch failure the last known payload is served even past its
// TTL. With no prior payload the failure is returned: the entry list is
// a primary read and must fail loudly.
func (c *Client) Papers(ctx context.Context) ([]Paper, error) {
	if v, ok := c.cache.Get(keyPapers); ok {
		return v.([]Paper), nil
	}

	var papers []Paper
	if err := c.getJSON(ctx, "/v1/api/papers", &papers); err != nil {
		if v, ok := c.cache.GetStale(keyPapers); ok {
			return v.([]Paper), nil
		}
		return nil, err
	}

	c.cache.Set(keyPapers, papers)
	return papers, nil
}

// Paper fetches one entry's metadata by id, with the same stale
// fallback as Papers.
func (c *Client) Paper(ctx context.Context, id int) (Paper, error) {
	key := paperKey(id)
	if v, ok := c.cache.Get(key); ok {
		return v.(Paper), nil
	}

	var paper Paper
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/api/papers/%d", id), &paper); err != nil {
		if v, ok := c.cache.GetStale(key); ok {
			return v.(Paper), nil
		}
		return Paper{}, err
	}

	c.cache.Set(key, paper)
	return paper, nil
}

// Tags lists the taxonomy, cached under its own (longer) TTL.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	if v, ok := c.cache.Get(keyTags); ok {
		return v.([]Tag), nil
	}

	var tags []Tag
	if err := c.getJSON(ctx, "/v1/api/tags", &tags); err != nil {
		if v, ok := c.cache.GetStale(keyTags); ok {
			return v.([]Tag), nil
		}
		return nil, err
	}

	c.cache.Set(keyTags, tags)
	return tags, nil
}

// Stats feeds purely-informational displays: a failed fetch degrades to
// the last known payload, and with nothing cached it degrades further
// to zero-value stats rather than an error.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	if v, ok := c.cache.Get(keyStats); ok {
		return v.(Stats), nil
	}

	var stats Stats
	if err := c.getJSON(ctx, "/v1/api/stats", &stats); err != nil {
		if v, ok := c.cache.GetStale(keyStats); ok {
			return v.(Stats), nil
		}
		return Stats{}, nil
	}

	c.cache.Set(keyStats, stats)
	return stats, nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (Tag, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return Tag{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/api/tags", bytes.NewBuffer(payload))
	if err != nil {
		return Tag{}, err
	}

	var tag Tag
	if err := c.do(req, http.StatusCreated, &tag); err != nil {
		return Tag{}, err
	}

	c.cache.Invalidate(keyTags, keyStats)
	return tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/v1/api/tags/%d", c.base, id), nil)
	if err != nil {
		return err
	}
	if err := c.do(req, http.StatusNoContent, nil); err != nil {
		return err
	}

	c.cache.Invalidate(keyTags, keyStats)
	return nil
}

// SubmitPaper uploads a new entry: metadata, optional source file, and
// tag ids, as one multipart request. Any cached read could be affected
// by a new entry, so the whole cache is cleared.
func (c *Client) SubmitPaper(ctx context.Context, sub PaperSubmission, sourcePath string) (Paper, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	meta, err := json.Marshal(sub)
	if err != nil {
		return Paper{}, err
	}
	if err := writer.WriteField("meta", string(meta)); err != nil {
		return Paper{}, err
	}

	if sourcePath != "" {
		f, err := os.Open(sourcePath)
		if err != nil {
			return Paper{}, fmt.Errorf("failed to open source file: %w", err)
		}
		defer f.Close()

		part, err := writer.CreateFormFile("source", filepath.Base(sourcePath))
		if err != nil {
			return Paper{}, err
		}
		if _, err := io.Copy(part, f); err != nil {
			return Paper{}, err
		}
	}

	if err := writer.Close(); err != nil {
		return Paper{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/api/papers", &body)
	if err != nil {
		return Paper{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var paper Paper
	if err := c.do(req, http.StatusCreated, &paper); err != nil {
		return Paper{}, err
	}

	c.cache.Invalidate()
	return paper, nil
}

func (c *Client) DeletePaper(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/v1/api/papers/%d", c.base, id), nil)
	if err != nil {
		return err
	}
	if err := c.do(req, http.StatusNoContent, nil); err != nil {
		return err
	}

	c.cache.Invalidate()
	return nil
}
