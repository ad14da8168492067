// Package ckan talks to a remote CKAN action API.
package ckan

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

	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/search"
)

const packageSearchPath = "/api/3/action/package_search"

// APIError is returned when CKAN answers with a non-2xx status or with
// success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ckan: status %d: %s", e.Status, e.Message)
	}
	return "ckan: " + e.Message
}

type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIToken sends token in the Authorization header on every call.
func WithAPIToken(token string) Option {
	return func(c *Client) { c.apiToken = token }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type packageSearchResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Count   int              `json:"count"`
		Results []models.Package `json:"results"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"__type"`
	} `json:"error"`
}

// Search calls package_search for one page.
func (c *Client) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	params := url.Values{}
	query := q.Q
	if query == "" {
		query = search.MatchAll
	}
	params.Set("q", query)
	if q.Type != "" {
		params.Set("fq", "dataset_type:"+q.Type)
	}
	params.Set("include_private", strconv.FormatBool(q.IncludePrivate))
	params.Set("start", strconv.Itoa(q.Start))
	params.Set("rows", strconv.Itoa(q.Rows))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+packageSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	// CKAN identifies the caller by API token, so a query's User is the
	// token to search as and takes precedence over the client's.
	token := c.apiToken
	if q.User != "" {
		token = q.User
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(b))}
	}

	var body packageSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode package_search: %w", err)
	}
	if !body.Success {
		msg := "package_search failed"
		if body.Error != nil && body.Error.Message != "" {
			msg = body.Error.Message
		}
		return nil, &APIError{Message: msg}
	}

	return &search.Result{
		Count:   body.Result.Count,
		Results: body.Result.Results,
	}, nil
}
