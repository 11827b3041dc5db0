package products

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductAPI/pkg/kit"
)

// Client-visible messages. The exact wording is part of the API contract.
const (
	msgInvalidAPIKey   = "Unauthorized: Invalid API Key"
	msgFieldsRequired  = "All fields are required"
	msgInvalidTypes    = "Invalid data types for price or inStock"
	msgProductNotFound = "Product not found"
	msgMissingQuery    = "Missing search query (?q=)"
	msgInternalError   = "Something went wrong"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

type listResponse struct {
	Total int       `json:"total"`
	Page  *int      `json:"page"`
	Limit *int      `json:"limit"`
	Data  []Product `json:"data"`
}

type searchResponse struct {
	Count   int       `json:"count"`
	Results []Product `json:"results"`
}

type statsResponse struct {
	CountByCategory map[string]int `json:"countByCategory"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	all, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	q := r.URL.Query()

	filtered := all
	if category := q.Get("category"); category != "" {
		want := strings.ToLower(category)
		filtered = make([]Product, 0, len(all))
		for _, p := range all {
			// category is asserted, not checked: a stored non-string
			// value fails the request through the terminal error stage.
			if strings.ToLower(p["category"].(string)) == want {
				filtered = append(filtered, p)
			}
		}
	}

	page, pageOK := parseQueryInt(q, "page", 1)
	limit, limitOK := parseQueryInt(q, "limit", 10)

	resp := listResponse{
		Total: len(filtered),
		Data:  []Product{},
	}
	if pageOK {
		resp.Page = &page
	}
	if limitOK {
		resp.Limit = &limit
	}

	// Non-integer page or limit yields an empty window, with the bad
	// value echoed back as null.
	if pageOK && limitOK {
		start := (page - 1) * limit
		lo, hi := sliceWindow(len(filtered), start, start+limit)
		resp.Data = filtered[lo:hi]
	}

	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !ok {
		kit.WriteError(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	body := BodyFromContext(r.Context())

	// The generated id goes in first and the body is merged on top, so
	// a client-supplied "id" wins. Kept intentionally.
	doc := Product{"id": NewID()}
	for k, v := range body {
		doc[k] = v
	}

	if err := s.Store.Append(r.Context(), doc); err != nil {
		if s.Log != nil {
			s.Log.Error("create product failed", zap.Error(err))
		}
		kit.WriteError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, doc)
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body := BodyFromContext(r.Context())

	// Full replacement: fields absent from the body are dropped, and
	// the path id overrides any id in the body.
	doc := Product{}
	for k, v := range body {
		doc[k] = v
	}
	doc["id"] = id

	updated, ok, err := s.Store.Replace(r.Context(), id, doc)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("replace product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !ok {
		kit.WriteError(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	kit.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !ok {
		kit.WriteError(w, http.StatusNotFound, msgProductNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		kit.WriteError(w, http.StatusBadRequest, msgMissingQuery)
		return
	}

	all, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("search products failed", zap.Error(err))
		}
		kit.WriteError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	needle := strings.ToLower(q)
	results := make([]Product, 0)
	for _, p := range all {
		// name is asserted, not checked, same as category in list.
		if strings.Contains(strings.ToLower(p["name"].(string)), needle) {
			results = append(results, p)
		}
	}

	kit.WriteJSON(w, http.StatusOK, searchResponse{Count: len(results), Results: results})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	all, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("stats failed", zap.Error(err))
		}
		kit.WriteError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	counts := make(map[string]int)
	for _, p := range all {
		counts[categoryKey(p["category"])]++
	}

	kit.WriteJSON(w, http.StatusOK, statsResponse{CountByCategory: counts})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}
