package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

const maxBodyBytes = 50 << 20

type InventoryService interface {
	Search(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error)
	Create(ctx context.Context, in domain.NewInventoryItemInput) (*domain.InventoryItem, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, cmd domain.PlaceOrderCommand) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
}

type CatalogService interface {
	Search(ctx context.Context, query string) ([]domain.CardRecord, error)
	Collection(ctx context.Context, identifiers []domain.CardIdentifier) ([]domain.CardRecord, error)
}

// Server groups the HTTP layer dependencies.
type Server struct {
	adminPassword string
	inventory     InventoryService
	orders        OrderService
	catalog       CatalogService
	logger        *zap.Logger
}

func NewServer(
	adminPassword string,
	inventory InventoryService,
	orders OrderService,
	catalog CatalogService,
	logger *zap.Logger,
) *Server {
	return &Server{
		adminPassword: adminPassword,
		inventory:     inventory,
		orders:        orders,
		catalog:       catalog,
		logger:        logger,
	}
}

// Routes builds the router with every endpoint and the shared middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	r.Use(limitBody(maxBodyBytes))

	r.Get("/swagger.json", s.handleSwaggerJson)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/search", s.handleCatalogSearch)
		r.Post("/search-bulk", s.handleCatalogBulk)

		r.Get("/inventory", s.handleListInventory)
		r.Post("/inventory", s.handleCreateInventory)

		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handlePlaceOrder)
		r.Patch("/orders/{id}/status", s.handleUpdateOrderStatus)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type successResponse struct {
	Success bool          `json:"success"`
	Order   *domain.Order `json:"order,omitempty"`
}

// Handler GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK"})
}

// Handler POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err, "", false)
		return
	}
	if s.adminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) != 1 {
		s.writeError(w, domain.Unauthorized("invalid password"), "", false)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Handler GET /swagger.json
func (s *Server) handleSwaggerJson(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(openAPISpec))
}

// writeError maps err to a status code and a client-safe message. While an
// order is being placed a vanished item is a rejected order, not a 404.
func (s *Server) writeError(w http.ResponseWriter, err error, fallback string, placingOrder bool) {
	kind := domain.KindOf(err)
	status := statusFor(kind, placingOrder)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	if fallback == "" {
		fallback = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: domain.PublicMessage(err, fallback)})
}

func statusFor(kind domain.ErrorKind, placingOrder bool) int {
	switch kind {
	case domain.KindInvalidRequest, domain.KindBusinessRule:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		if placingOrder {
			return http.StatusBadRequest
		}
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return domain.InvalidRequest("request body too large")
		}
		return domain.InvalidRequest("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("writeJSON error", zap.Error(err))
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("http request",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
