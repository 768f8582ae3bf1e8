package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/matching"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/metrics"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/storage"
)

type Server struct {
	Engine *matching.Engine
	Items  ItemStore
	logger zerolog.Logger
}

// NewServer wires the API. A nil store starts with an empty in-memory catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewServer(engine *matching.Engine, items ItemStore, logger zerolog.Logger) *Server {
	if items == nil {
		items = storage.NewMemoryStore(nil)
	}
	return &Server{Engine: engine, Items: items, logger: logger.With().Str("component", "http").Logger()}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.observe)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/rank", s.handleRank)
	r.Get("/weights", s.handleWeights)
	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleItemsList)
		r.Post("/", s.handleItemsCreate)
		r.Get("/{id}", s.handleItemGet)
		r.Delete("/{id}", s.handleItemDelete)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// observe logs and counts every request under its route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, route, status)
		s.logger.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWeights reports the raw per-axis weights before per-query normalisation.
func (s *Server) handleWeights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Weights())
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// RankRequest is the body of POST /rank. Empty axis values mean no preference.
type RankRequest struct {
	Length       string `json:"length" validate:"omitempty,oneof=short medium long none"`
	Age          string `json:"age" validate:"omitempty,oneof=new older retro none"`
	Rating       string `json:"rating" validate:"omitempty,oneof=excellent good average bad none"`
	Popularity   string `json:"popularity" validate:"omitempty,oneof=blockbuster average unknown none"`
	Language     string `json:"language" validate:"omitempty,oneof=en fr de es it ja ko zh ru pt hi sv sk cs none"`
	Text         string `json:"text" validate:"max=200"`
	IncludeAdult bool   `json:"include_adult"`
	TopN         int    `json:"top_n" validate:"omitempty,min=1,max=500"`
	CurrentYear  int    `json:"current_year" validate:"omitempty,min=1870,max=3000"`
	Verbose      bool   `json:"verbose"`
}

func (req RankRequest) preferences() domain.Preferences {
	return domain.Preferences{
		Length:       domain.Length(req.Length),
		Age:          domain.Age(req.Age),
		Rating:       domain.Rating(req.Rating),
		Popularity:   domain.Popularity(req.Popularity),
		Language:     req.Language,
		Text:         req.Text,
		IncludeAdult: req.IncludeAdult,
		TopN:         req.TopN,
		CurrentYear:  req.CurrentYear,
		Verbose:      req.Verbose,
	}
}

type RankResponse struct {
	RankID  string              `json:"rank_id"`
	Count   int                 `json:"count"`
	Results []domain.RankedItem `json:"results"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.TopN = parsed
		}
	}
	normalizeRankRequest(&req)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	rankID := uuid.NewString()
	results, err := s.Engine.RankFrom(r.Context(), s.Items, req.preferences())
	if err != nil {
		metrics.SourceErrors.WithLabelValues("catalog").Inc()
		s.logger.Error().Err(err).Str("rank_id", rankID).Msg("rank failed")
		writeError(w, http.StatusBadGateway, "source_unavailable", "catalog source is unavailable")
		return
	}

	s.logger.Info().
		Str("rank_id", rankID).
		Str("request_id", chimiddleware.GetReqID(r.Context())).
		Int("results", len(results)).
		Msg("ranked catalog")
	writeJSON(w, http.StatusOK, RankResponse{RankID: rankID, Count: len(results), Results: results})
}

func normalizeRankRequest(req *RankRequest) {
	for _, f := range []*string{&req.Length, &req.Age, &req.Rating, &req.Popularity, &req.Language} {
		*f = strings.ToLower(strings.TrimSpace(*f))
	}
}

// ---- Items API ----

// ItemsQuery holds the GET /items query parameters.
type ItemsQuery struct {
	Language string `validate:"omitempty,max=32"`
	MinYear  int    `validate:"omitempty,min=1800,max=3000"`
	Sort     string `validate:"omitempty,oneof=year_desc year_asc rating_desc popularity_desc"`
}

type ItemsListResponse struct {
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Total  int           `json:"total"`
	Items  []ItemSummary `json:"items"`
}

func (s *Server) handleItemsList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 0)
	q := r.URL.Query()
	query := ItemsQuery{
		Language: strings.TrimSpace(q.Get("language")),
		Sort:     q.Get("sort"),
	}
	if v := q.Get("min_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "min_year must be an integer")
			return
		}
		query.MinYear = year
	}
	if err := validate.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	items, total, err := s.Items.ListFiltered(r.Context(), storage.Filter{
		Limit:    limit,
		Offset:   offset,
		Language: query.Language,
		MinYear:  query.MinYear,
		Sort:     query.Sort,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("list items failed")
		writeError(w, http.StatusInternalServerError, "internal", "failed to list items")
		return
	}

	writeJSON(w, http.StatusOK, ItemsListResponse{
		Limit:  limit,
		Offset: offset,
		Total:  total,
		Items:  summarize(items),
	})
}

func (s *Server) handleItemGet(w http.ResponseWriter, r *http.Request) {
	it, ok, err := s.Items.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error().Err(err).Msg("get item failed")
		writeError(w, http.StatusInternalServerError, "internal", "failed to load item")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	ok, err := s.Items.DeleteItem(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrReadOnly) {
		writeError(w, http.StatusMethodNotAllowed, "read_only", err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("delete item failed")
		writeError(w, http.StatusInternalServerError, "internal", "failed to delete item")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type CreateItemRequest struct {
	ID               string   `json:"id" validate:"omitempty,max=64"`
	Title            string   `json:"title" validate:"required,max=500"`
	Runtime          *float64 `json:"runtime" validate:"omitempty,gt=0,lte=1000"`
	ReleaseYear      *int     `json:"release_year" validate:"omitempty,min=1870,max=3000"`
	VoteAverage      *float64 `json:"vote_average" validate:"omitempty,gte=0,lte=10"`
	VoteCount        *int     `json:"vote_count" validate:"omitempty,gte=0"`
	Popularity       *float64 `json:"popularity" validate:"omitempty,gte=0"`
	SpokenLanguages  string   `json:"spoken_languages" validate:"max=500"`
	OriginalLanguage string   `json:"original_language" validate:"max=16"`
	Adult            *bool    `json:"adult"`
}

func (s *Server) handleItemsCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	it, err := s.Items.CreateItem(r.Context(), domain.Item{
		ID:               req.ID,
		Title:            req.Title,
		Runtime:          req.Runtime,
		ReleaseYear:      req.ReleaseYear,
		VoteAverage:      req.VoteAverage,
		VoteCount:        req.VoteCount,
		Popularity:       req.Popularity,
		SpokenLanguages:  req.SpokenLanguages,
		OriginalLanguage: req.OriginalLanguage,
		Adult:            req.Adult,
	})
	if errors.Is(err, storage.ErrReadOnly) {
		writeError(w, http.StatusMethodNotAllowed, "read_only", err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("create item failed")
		writeError(w, http.StatusInternalServerError, "internal", "failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func parseLimitOffset(r *http.Request, defLimit, defOffset int) (int, int) {
	q := r.URL.Query()

	limit := defLimit
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	// safety cap
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}

	return limit, offset
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
