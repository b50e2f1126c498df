package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/usecase"
)

const maxOrderBody = 64 << 10

// OrderPlacer — сценарий оформления заказа.
type OrderPlacer interface {
	Execute(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)
}

type Server struct {
	Router  *mux.Router
	UCList  usecase.ListProducts
	UCGet   usecase.GetProduct
	UCOrder OrderPlacer
	Log     *zap.Logger
}

func NewServer(list usecase.ListProducts, get usecase.GetProduct, order OrderPlacer, log *zap.Logger) *Server {
	s := &Server{Router: mux.NewRouter(), UCList: list, UCGet: get, UCOrder: order, Log: log}
	s.Router.Use(s.logRequests)
	s.Router.HandleFunc("/product/", s.handleList).Methods(http.MethodGet)
	s.Router.HandleFunc("/product/{id}", s.handleGet).Methods(http.MethodGet)
	s.Router.HandleFunc("/order", s.handleOrder).Methods(http.MethodPost)
	s.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return s
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.UCList.Execute())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, ok := s.UCGet.Execute(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Неверный формат заказа")
		return
	}
	res, err := s.UCOrder.Execute(r.Context(), req)
	var rejected *usecase.RejectionError
	switch {
	case errors.As(err, &rejected):
		s.Log.Info("order rejected", zap.String("reason", rejected.Reason), zap.Strings("items", req.Items))
		writeError(w, http.StatusBadRequest, rejected.Reason)
		return
	case err != nil:
		s.Log.Error("place order", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.Log.Info("order placed", zap.String("id", res.ID), zap.Stringer("total", res.Total))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorBody{Error: msg})
}
