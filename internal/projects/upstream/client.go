package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/ingest"
)

// maxPages stops a misbehaving upstream from paging forever.
const maxPages = 500

// Options configures the upstream client.
type Options struct {
	BaseURL   string
	Token     string
	PageSize  int
	Timeout   time.Duration
	RateLimit rate.Limit
	Burst     int
}

// Client reads the raw project collection from the legacy dashboard API.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(opt Options) *Client {
	if opt.PageSize <= 0 {
		opt.PageSize = 100
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	if opt.RateLimit <= 0 {
		opt.RateLimit = rate.Limit(5)
	}
	if opt.Burst <= 0 {
		opt.Burst = 5
	}
	return &Client{
		baseURL:  strings.TrimRight(opt.BaseURL, "/"),
		token:    opt.Token,
		pageSize: opt.PageSize,
		httpClient: &http.Client{
			Timeout: opt.Timeout,
		},
		limiter: rate.NewLimiter(opt.RateLimit, opt.Burst),
	}
}

// pageResponse is one page of GET /projetos.
type pageResponse struct {
	Projects []ingest.RawProject `json:"projetos"`
	NextPage *int                `json:"proxima_pagina"`
}

// FetchProjects walks every page of the upstream collection.
func (c *Client) FetchProjects(ctx context.Context) ([]ingest.RawProject, error) {
	var out []ingest.RawProject
	page := 1
	for i := 0; i < maxPages; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		out = append(out, resp.Projects...)

		if resp.NextPage == nil || *resp.NextPage <= page {
			return out, nil
		}
		page = *resp.NextPage
	}
	log.Printf("[upstream] stopped after %d pages", maxPages)
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*pageResponse, error) {
	q := url.Values{}
	q.Set("pagina", strconv.Itoa(page))
	q.Set("limite", strconv.Itoa(c.pageSize))
	endpoint := fmt.Sprintf("%s/projetos?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var pr pageResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to decode page %d: %w", page, err)
	}
	return &pr, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
