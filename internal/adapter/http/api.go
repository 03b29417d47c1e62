package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/view"
)

type pageResponse struct {
	Page   domain.Page    `json:"page"`
	Pages  []domain.Page  `json:"pages"`
	Fields []domain.Field `json:"fields"`
	Filter domain.Filter  `json:"filter"`
}

type filterRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/page", s.handleCurrentPage)
	mux.HandleFunc("POST /api/navigate/{page}", s.handleNavigate)
	mux.HandleFunc("GET /api/views/{page}", s.handleView)
	mux.HandleFunc("POST /api/views/{page}/filters", s.handleSelect)
	mux.HandleFunc("POST /api/views/{page}/reset", s.handleReset)
	mux.HandleFunc("GET /api/map/geojson", s.handleGeoJSON)
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) handleCurrentPage(w http.ResponseWriter, _ *http.Request) {
	page := s.nav.Current()
	v, err := s.nav.View(page)
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Page:   page,
		Pages:  domain.Pages,
		Fields: v.Fields(),
		Filter: v.Filter(),
	})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	page, err := domain.ParsePage(r.PathValue("page"))
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	s.writeSnapshot(r.Context(), w, func(ctx context.Context) (domain.Snapshot, error) {
		return s.nav.Navigate(ctx, page)
	})
}

// handleView returns the latest snapshot of a page, refreshing the current
// page first if it has not been rendered yet.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	page, err := domain.ParsePage(r.PathValue("page"))
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	v, err := s.nav.View(page)
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	if snap, ok := v.Latest(); ok {
		writeJSON(w, http.StatusOK, snap)
		return
	}
	if s.nav.Current() != page {
		s.writeViewError(w, view.ErrPageInactive)
		return
	}
	s.writeSnapshot(r.Context(), w, s.nav.Refresh)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	page, err := domain.ParsePage(r.PathValue("page"))
	if err != nil {
		s.writeViewError(w, err)
		return
	}

	var req filterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	field, err := domain.ParseField(req.Field)
	if err != nil {
		s.writeViewError(w, err)
		return
	}

	s.writeSnapshot(r.Context(), w, func(ctx context.Context) (domain.Snapshot, error) {
		return s.nav.Select(ctx, page, field, req.Value)
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	page, err := domain.ParsePage(r.PathValue("page"))
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	s.writeSnapshot(r.Context(), w, func(ctx context.Context) (domain.Snapshot, error) {
		return s.nav.Reset(ctx, page)
	})
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, _ *http.Request) {
	layer, err := s.nav.Layer()
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	fc, err := layer.GeoJSON()
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(fc) //nolint:errcheck // client may have gone away
}

func (s *Server) writeSnapshot(ctx context.Context, w http.ResponseWriter, refresh func(context.Context) (domain.Snapshot, error)) {
	snap, err := refresh(ctx)
	if err != nil {
		s.writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeViewError maps view and domain errors to HTTP statuses.
func (s *Server) writeViewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, view.ErrStale):
		// A newer request owns the view; its response carries the data.
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "superseded"})
	case errors.Is(err, domain.ErrUnknownPage):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, view.ErrFieldNotAllowed):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, view.ErrPageInactive), errors.Is(err, view.ErrMapInactive), errors.Is(err, view.ErrLayerClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, view.ErrClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("view request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
