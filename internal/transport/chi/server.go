// Package chi implements the HTTP API over the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fuelgrid-cloud/pumproom/internal/domain"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	logpkg "github.com/fuelgrid-cloud/pumproom/internal/logger"
	"github.com/fuelgrid-cloud/pumproom/internal/store"
	domlist "github.com/fuelgrid-cloud/pumproom/internal/domain/listing"
	bulkuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/bulk"
	healthuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/health"
	listinguc "github.com/fuelgrid-cloud/pumproom/internal/usecase/listing"
	requestsuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/requests"
	searchuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/search"
)

// actorHeader carries the acting user's id, stamped onto writes. Identity
// itself is the gateway's concern; the value is trusted as-is.
const actorHeader = "X-Actor-Id"

// kindSegments maps URL path segments to entity kinds.
var kindSegments = map[string]entity.Kind{
	"users":    entity.User,
	"teams":    entity.Team,
	"pumps":    entity.Pump,
	"requests": entity.Request,
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Records is the CRUD contract the transport needs from the repository.
type Records interface {
	Get(ctx context.Context, kind entity.Kind, id string) (store.Document, error)
	Create(ctx context.Context, kind entity.Kind, fields map[string]any, actor string) (string, error)
	Update(ctx context.Context, kind entity.Kind, id string, fields map[string]any, actor string) error
	Delete(ctx context.Context, kind entity.Kind, id string) error
}

// Server holds the use case services behind the HTTP handlers.
type Server struct {
	search          *searchuc.Service
	listing         *listinguc.Service
	bulk            *bulkuc.Service
	requests        *requestsuc.Service
	health          *healthuc.Service
	records         Records
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	search *searchuc.Service,
	listing *listinguc.Service,
	bulk *bulkuc.Service,
	requests *requestsuc.Service,
	health *healthuc.Service,
	records Records,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          search,
		listing:         listing,
		bulk:            bulk,
		requests:        requests,
		health:          health,
		records:         records,
		logger:          logger,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidKind, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrInvalidTransition, http.StatusConflict, codeInvalidTransition),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusBadRequest, codeBatchTooLarge),
	}
	return s
}

// WithPagination configures page size limits.
func (s *Server) WithPagination(defaultPageSize, maxPageSize int) *Server {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Mount registers all routes on the given router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearch)

	r.Route("/{kind}", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Patch("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	r.Post("/requests/{id}/approve", s.handleApprove)
	r.Post("/requests/{id}/reject", s.handleReject)
	r.Post("/pumps/import", s.handleImport)
	r.Post("/pumps/reorder", s.handleReorder)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := s.search.Search(r.Context(), query)
	logpkg.FromContext(r.Context()).Debug("search handled",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Total:   len(results),
		Results: searchHitsFromRecords(results),
	})
}

// filterDims are the discrete filter dimensions accepted per kind, matching
// the dropdowns each list screen offers.
var filterDims = map[entity.Kind][]string{
	entity.User:    {"role", "teamId"},
	entity.Team:    {"district"},
	entity.Pump:    {"brand", "district", "city"},
	entity.Request: {"teamName", "district"},
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.pathKind(w, r)
	if !ok {
		return
	}

	q := domlist.NewQuery(s.pageSize(r))
	q.SetTerm(r.URL.Query().Get("q"))
	if status := r.URL.Query().Get("status"); status != "" {
		q.SetStatus(status)
	}
	for _, dim := range filterDims[kind] {
		if v := r.URL.Query().Get(dim); v != "" {
			q.SetFilter(dim, v)
		}
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	q.SetDateRange(from, to)
	// Page last: the setters above all reset it.
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.SetPage(page)
	}

	page, err := s.listing.List(r.Context(), kind, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponseFromPage(page))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.pathKind(w, r)
	if !ok {
		return
	}
	doc, err := s.records.Get(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listItem{ID: doc.ID, Record: doc.Fields})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.pathKind(w, r)
	if !ok {
		return
	}
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "document fields are required")
		return
	}

	id, err := s.records.Create(r.Context(), kind, fields, actor(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: id})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.pathKind(w, r)
	if !ok {
		return
	}
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.records.Update(r.Context(), kind, chi.URLParam(r, "id"), fields, actor(r)); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.pathKind(w, r)
	if !ok {
		return
	}
	if err := s.records.Delete(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	pumpID, err := s.requests.Approve(r.Context(), chi.URLParam(r, "id"), actor(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{PumpID: pumpID})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.requests.Reject(r.Context(), chi.URLParam(r, "id"), actor(r), req.Reason); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "rows are required")
		return
	}
	results, summary := s.bulk.ImportPumps(r.Context(), req.Rows, actor(r))
	writeJSON(w, http.StatusOK, batchResponseFrom(results, summary))
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "ids are required")
		return
	}
	results, summary := s.bulk.Reorder(r.Context(), entity.Pump, req.IDs, actor(r))
	writeJSON(w, http.StatusOK, batchResponseFrom(results, summary))
}

func (s *Server) pathKind(w http.ResponseWriter, r *http.Request) (entity.Kind, bool) {
	kind, ok := kindSegments[chi.URLParam(r, "kind")]
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "unknown entity kind")
		return "", false
	}
	return kind, true
}

func (s *Server) pageSize(r *http.Request) int {
	size, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || size <= 0 {
		return s.defaultPageSize
	}
	if size > s.maxPageSize {
		return s.maxPageSize
	}
	return size
}

func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var from, to time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, errors.New("from must be RFC3339")
		}
		from = ts
	}
	if v := r.URL.Query().Get("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, errors.New("to must be RFC3339")
		}
		to = ts
	}
	return from, to, nil
}

func actor(r *http.Request) string {
	if id := r.Header.Get(actorHeader); id != "" {
		return id
	}
	return "system"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidKind,
		domain.ErrInvalidTransition,
		domain.ErrValidation,
		domain.ErrBatchTooLarge,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
