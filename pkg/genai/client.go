// Package genai is the client for the upstream AI generation service.
//
// The service exposes two endpoints with an identical wire contract:
//
//	POST /v1/ai/mindmap/generate         — prompt → mindmap tree JSON
//	POST /v1/ai/text-to-diagram/generate — prompt → diagram definition text
//
// Both return the generated text together with the caller's remaining
// rate-limit quota. Responses are cached by prompt so repeated generations
// of the same topic don't burn quota.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/mindgrid/pkg/cache"
	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/httputil"
	"github.com/matzehuels/mindgrid/pkg/observability"
)

const httpTimeout = 60 * time.Second

// Endpoint paths on the upstream service.
const (
	mindmapPath = "/v1/ai/mindmap/generate"
	diagramPath = "/v1/ai/text-to-diagram/generate"
)

// RateLimit reports the caller's quota as seen in the latest upstream
// response. Remaining is -1 when the value came from cache and is unknown.
type RateLimit struct {
	Limit     int `json:"rateLimit"`
	Remaining int `json:"rateLimitRemaining"`
}

// Result is a successful generation.
type Result struct {
	Generated string    `json:"generatedResponse"`
	RateLimit RateLimit `json:"rateLimit"`
	FromCache bool      `json:"-"`
}

// Generator is the interface the pipeline and API server consume. Client is
// the production implementation; tests substitute fakes.
type Generator interface {
	GenerateMindmap(ctx context.Context, prompt, language string, refresh bool) (*Result, error)
	GenerateDiagram(ctx context.Context, prompt, language string, refresh bool) (*Result, error)
}

// Client talks to the upstream generation service with retries and caching.
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	backend cache.Cache
	keyer   cache.Keyer
}

// NewClient creates a generation client.
//
// backend caches successful generations (use cache.NewNullCache() to disable);
// keyer derives the cache keys and may be nil for the default. apiKey is sent
// as a bearer token when non-empty. model is recorded in cache keys so that
// switching upstream models never serves stale trees.
func NewClient(baseURL, apiKey, model string, backend cache.Cache, keyer cache.Keyer) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		backend: backend,
		keyer:   keyer,
	}
}

// GenerateMindmap asks the upstream service for a mindmap tree. The returned
// Result.Generated is the raw JSON tree string; parsing and clamping are the
// caller's concern. If refresh is true the cache is bypassed.
func (c *Client) GenerateMindmap(ctx context.Context, prompt, language string, refresh bool) (*Result, error) {
	key := c.keyer.TreeKey(prompt, cache.TreeKeyOpts{Language: language, Model: c.model})
	return c.generate(ctx, mindmapPath, "mindmap", key, prompt, language, refresh)
}

// GenerateDiagram asks the upstream service for diagram definition text
// (e.g. a flowchart DSL) to feed through the text-to-diagram adapter.
func (c *Client) GenerateDiagram(ctx context.Context, prompt, language string, refresh bool) (*Result, error) {
	key := c.keyer.HTTPKey("genai", "ttd:"+cache.Hash([]byte(c.model+"\x00"+language+"\x00"+prompt)))
	return c.generate(ctx, diagramPath, "diagram", key, prompt, language, refresh)
}

func (c *Client) generate(ctx context.Context, path, kind, key, prompt, language string, refresh bool) (*Result, error) {
	if !refresh {
		if data, hit, _ := c.backend.Get(ctx, key); hit {
			observability.Cache().OnCacheHit(ctx, "tree")
			var res Result
			if err := json.Unmarshal(data, &res); err == nil {
				res.FromCache = true
				res.RateLimit.Remaining = -1
				return &res, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	start := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, kind, language)

	var res *Result
	err := httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		res, ferr = c.post(ctx, path, prompt, language)
		return ferr
	})
	observability.Pipeline().OnGenerateComplete(ctx, kind, language, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if data, merr := json.Marshal(res); merr == nil {
		if c.backend.Set(ctx, key, data, cache.TTLTree) == nil {
			observability.Cache().OnCacheSet(ctx, "tree", len(data))
		}
	}
	return res, nil
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, path, prompt, language string) (*Result, error) {
	endpoint := c.baseURL + path
	body, err := json.Marshal(generateRequest{Prompt: prompt, Language: language})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	host, reqPath := requestTarget(endpoint)
	observability.HTTP().OnRequest(ctx, http.MethodPost, host, reqPath)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodPost, host, reqPath, err)
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "generation request failed")}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodPost, host, reqPath, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		var res Result
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUpstream, err, "decode generation response")
		}
		return &res, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		msg := readErrorMessage(resp.Body)
		return nil, errors.Wrap(errors.ErrCodeRateLimited,
			&errors.RateLimitedError{RetryAfter: retryAfter, Message: msg},
			"generation quota exhausted")

	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeUpstream, "upstream returned status %d", resp.StatusCode),
		}

	default:
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, errors.New(errors.ErrCodeUpstream, "generation rejected: %s", msg)
	}
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var er errorResponse
	if json.Unmarshal(data, &er) == nil && er.Message != "" {
		return er.Message
	}
	return ""
}

func requestTarget(endpoint string) (host, path string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint, ""
	}
	return u.Host, u.Path
}

var _ Generator = (*Client)(nil)
