package http

import (
	"context"
	"net/http"

	"github.com/couchcryptid/epi-dashboard-service/internal/adapter/remote"
	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// registerQueryRoutes serves the backend query contract from the configured
// record store, so a dashboard in remote mode can point at this service.
func (s *Server) registerQueryRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+remote.PathTrend, queryHandler(s, domain.KindTrend, s.store.FetchTrend))
	mux.HandleFunc("GET "+remote.PathTopDiseases, queryHandler(s, domain.KindTopDiseases, s.store.FetchTopDiseases))
	mux.HandleFunc("GET "+remote.PathClimateImpact, queryHandler(s, domain.KindClimate, s.store.FetchClimate))
	mux.HandleFunc("GET "+remote.PathMap, queryHandler(s, domain.KindMap, s.store.FetchMap))
}

func queryHandler[T any](s *Server, kind domain.RecordKind, fetch func(context.Context, domain.Filter) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := remote.FilterFromQuery(kind, r.URL.Query())
		records, err := fetch(r.Context(), f)
		if err != nil {
			s.logger.Warn("query failed", "kind", string(kind), "filter", f, "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		if records == nil {
			records = []T{}
		}
		writeJSON(w, http.StatusOK, records)
	}
}
