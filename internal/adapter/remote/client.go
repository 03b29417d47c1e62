// Package remote implements domain.RecordStore against the surveillance
// backend's HTTP query endpoints.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 10 * time.Second

// Query parameter names understood by the backend.
const (
	ParamState   = "state_ut"
	ParamDisease = "Disease"
	ParamWeek    = "week"
)

// Endpoint paths, relative to the base URL.
const (
	PathTrend         = "/trend"
	PathTopDiseases   = "/top-diseases"
	PathClimateImpact = "/climate-impact"
	PathMap           = "/map"
)

// Client fetches record collections from the backend. It never caches or
// retries; every failure is returned as *domain.FetchError.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

func (c *Client) FetchTrend(ctx context.Context, f domain.Filter) ([]domain.TrendRecord, error) {
	return fetch[domain.TrendRecord](ctx, c, domain.KindTrend, PathTrend, f)
}

func (c *Client) FetchTopDiseases(ctx context.Context, f domain.Filter) ([]domain.TopDiseaseRecord, error) {
	return fetch[domain.TopDiseaseRecord](ctx, c, domain.KindTopDiseases, PathTopDiseases, f)
}

func (c *Client) FetchClimate(ctx context.Context, f domain.Filter) ([]domain.ClimateRecord, error) {
	return fetch[domain.ClimateRecord](ctx, c, domain.KindClimate, PathClimateImpact, f)
}

func (c *Client) FetchMap(ctx context.Context, f domain.Filter) ([]domain.MapRecord, error) {
	return fetch[domain.MapRecord](ctx, c, domain.KindMap, PathMap, f)
}

// QueryParams encodes the fields of f the backend accepts for kind.
// Absent fields are omitted rather than sent empty.
func QueryParams(kind domain.RecordKind, f domain.Filter) url.Values {
	params := url.Values{}
	for _, field := range domain.KindParams(kind) {
		v, ok := f.Get(field)
		if !ok {
			continue
		}
		params.Set(paramName(field), v)
	}
	return params
}

// FilterFromQuery is the inverse of QueryParams for the given kind.
func FilterFromQuery(kind domain.RecordKind, q url.Values) domain.Filter {
	var f domain.Filter
	for _, field := range domain.KindParams(kind) {
		if v := q.Get(paramName(field)); v != "" {
			f, _ = f.With(field, v)
		}
	}
	return f
}

func paramName(field domain.Field) string {
	switch field {
	case domain.FieldState:
		return ParamState
	case domain.FieldDisease:
		return ParamDisease
	case domain.FieldWeek:
		return ParamWeek
	}
	return string(field)
}

func fetch[T any](ctx context.Context, c *Client, kind domain.RecordKind, path string, f domain.Filter) ([]T, error) {
	u := c.baseURL + path
	if params := QueryParams(kind, f); len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: kind, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.FetchError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	var records []T
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &domain.FetchError{Kind: kind, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
