package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/pkg/kit"
)

const maxBodyBytes = 1 << 20

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	q := catalog.Query{
		Text:     qs.Get("q"),
		Category: qs.Get("category"),
		Sort:     qs.Get("sort"),
	}
	if page, err := strconv.Atoi(qs.Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(qs.Get("limit")); err == nil {
		q.Limit = limit
	}

	kit.WriteJSON(w, http.StatusOK, s.Catalog.Query(q))
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Categories())
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Catalog.Get(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var d catalog.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Catalog.Create(r.Context(), d)
	if err != nil {
		if errors.Is(err, catalog.ErrTitleRequired) {
			kit.WriteError(w, r, http.StatusBadRequest, "title required", nil)
			return
		}
		s.Log.Error("create product failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := chi.URLParam(r, "id")

	var patch catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Catalog.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
			return
		}
		s.Log.Error("update product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.Catalog.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
			return
		}
		s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, p)
}
