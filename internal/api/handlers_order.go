package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/order"
	"storefront/pkg/kit"
)

type purchaseReq struct {
	Customer map[string]any   `json:"customer"`
	Items    []order.LineItem `json:"items"`
	Total    *float64         `json:"total"`
}

type purchaseResp struct {
	Success bool        `json:"success"`
	Order   order.Order `json:"order"`
}

type orderListResp struct {
	Total   int           `json:"total"`
	Results []order.Order `json:"results"`
}

func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req purchaseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid order payload", map[string]any{"cause": err.Error()})
		return
	}

	o, err := s.Orders.Create(r.Context(), req.Customer, req.Items, req.Total)
	if err != nil {
		if errors.Is(err, order.ErrInvalidOrder) {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid order payload", nil)
			return
		}
		s.Log.Error("create order failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, purchaseResp{Success: true, Order: o})
}

func (s *Server) ordersByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email query required", nil)
		return
	}

	matches := s.Orders.FindByEmail(email)
	kit.WriteJSON(w, http.StatusOK, orderListResp{Total: len(matches), Results: matches})
}

func (s *Server) adminOrders(w http.ResponseWriter, r *http.Request) {
	all := s.Orders.All()
	kit.WriteJSON(w, http.StatusOK, orderListResp{Total: len(all), Results: all})
}
