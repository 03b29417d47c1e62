package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

func TestClient_FetchTrendSendsOnlySetParams(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"week":"2024-W01","cases":120,"state":"Delhi","disease":"Dengue"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	records, err := c.FetchTrend(context.Background(), domain.Filter{State: "Delhi", Week: "2024-W05"})
	require.NoError(t, err)

	assert.Equal(t, PathTrend, gotPath)
	assert.Equal(t, "Delhi", gotQuery.Get(ParamState))
	assert.False(t, gotQuery.Has(ParamDisease), "absent disease must not be sent")
	assert.False(t, gotQuery.Has(ParamWeek), "week is not a trend parameter")

	want := []domain.TrendRecord{{Week: "2024-W01", Cases: 120, State: "Delhi", Disease: "Dengue"}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_PathsAndParams(t *testing.T) {
	f := domain.Filter{State: "Delhi", Disease: "Malaria", Week: "2024-W03"}

	tests := []struct {
		name      string
		fetch     func(*Client) error
		wantPath  string
		wantQuery url.Values
	}{
		{
			name: "top diseases",
			fetch: func(c *Client) error {
				_, err := c.FetchTopDiseases(context.Background(), f)
				return err
			},
			wantPath:  PathTopDiseases,
			wantQuery: url.Values{ParamState: {"Delhi"}, ParamWeek: {"2024-W03"}},
		},
		{
			name: "climate",
			fetch: func(c *Client) error {
				_, err := c.FetchClimate(context.Background(), f)
				return err
			},
			wantPath:  PathClimateImpact,
			wantQuery: url.Values{ParamDisease: {"Malaria"}},
		},
		{
			name: "map",
			fetch: func(c *Client) error {
				_, err := c.FetchMap(context.Background(), f)
				return err
			},
			wantPath:  PathMap,
			wantQuery: url.Values{ParamDisease: {"Malaria"}, ParamWeek: {"2024-W03"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotQuery url.Values
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			require.NoError(t, tt.fetch(NewClient(srv.URL+"/")))
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantQuery, gotQuery)
		})
	}
}

func TestClient_EmptyFilterSendsNoQuery(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	records, err := NewClient(srv.URL).FetchMap(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_Non2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "backend down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchClimate(context.Background(), domain.Filter{Disease: "Dengue"})
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.KindClimate, fe.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Contains(t, err.Error(), "backend down")
}

func TestClient_DecodeErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchTopDiseases(context.Background(), domain.Filter{})
	require.Error(t, err)
	assert.True(t, domain.IsFetchError(err))
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_NetworkErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewClient(base).FetchTrend(context.Background(), domain.Filter{})
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
}

func TestClient_TimeoutIsFetchError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchMap(context.Background(), domain.Filter{})
	require.Error(t, err)
	assert.True(t, domain.IsFetchError(err))
}

func TestClient_DefaultTimeout(t *testing.T) {
	c := NewClient("http://example.invalid")
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
}

func TestFilterFromQuery_RoundTripsKindParams(t *testing.T) {
	f := domain.Filter{State: "Gujarat", Disease: "H1N1", Week: "2024-W02"}

	got := FilterFromQuery(domain.KindTopDiseases, QueryParams(domain.KindTopDiseases, f))
	assert.Equal(t, domain.Filter{State: "Gujarat", Week: "2024-W02"}, got)
}
