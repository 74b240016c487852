// Package handler exposes the services over HTTP/JSON.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/service"
)

// DefaultMaxUploadBytes caps receipt uploads when Options leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the application services the routes call into.
type Services struct {
	Bills          *service.BillService
	Analytics      *service.AnalyticsService
	Users          *service.UserService
	Friends        *service.FriendService
	PaymentMethods *service.PaymentMethodService
	FCMTokens      *service.FCMTokenService
	Receipts       *service.ReceiptService
}

// Options configure New.
type Options struct {
	Services

	Health Pinger
	Logger *slog.Logger

	// JWT validates bearer tokens when RequireAuth is set.
	JWT         *auth.JWTManager
	RequireAuth bool

	// Registry receives the HTTP metrics and is served on /metrics.
	// Nil disables both.
	Registry *prometheus.Registry

	MaxUploadBytes int64
}

// publicRoutes stay reachable without a token when auth is required.
var publicRoutes = []string{
	"POST /users",
	"POST /login",
	"GET /healthz",
	"GET /metrics",
}

type handler struct {
	Services
	health         Pinger
	logger         *slog.Logger
	maxUploadBytes int64
	requireAuth    bool
}

// New builds the HTTP handler with every route and middleware installed.
func New(opts Options) http.Handler {
	h := &handler{
		Services:       opts.Services,
		health:         opts.Health,
		logger:         opts.Logger,
		maxUploadBytes: opts.MaxUploadBytes,
		requireAuth:    opts.RequireAuth && opts.JWT != nil,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = DefaultMaxUploadBytes
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Users
	r.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{email}", h.getUserByEmail).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", h.updateUser).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/users/{id}", h.deleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)

	// Bills
	r.HandleFunc("/bills", h.listBills).Methods(http.MethodGet)
	r.HandleFunc("/transactions", h.listBills).Methods(http.MethodGet)
	r.HandleFunc("/bills", h.createBill).Methods(http.MethodPost)
	r.HandleFunc("/bills/{billId}", h.getBill).Methods(http.MethodGet)
	r.HandleFunc("/bills/{billId}/payment", h.updatePayment).Methods(http.MethodPost)
	r.HandleFunc("/bills/{billId}/items", h.addItems).Methods(http.MethodPost)
	r.HandleFunc("/bills/{billId}/participants", h.addParticipants).Methods(http.MethodPost)

	r.HandleFunc("/analytics", h.analytics).Methods(http.MethodGet)

	// Friends
	r.HandleFunc("/friends", h.listFriends).Methods(http.MethodGet)
	r.HandleFunc("/friends", h.addFriend).Methods(http.MethodPost)
	r.HandleFunc("/friends/{friendId}", h.deleteFriend).Methods(http.MethodDelete)

	// Payment methods
	r.HandleFunc("/paymentMethods", h.listPaymentMethods).Methods(http.MethodGet)
	r.HandleFunc("/paymentMethods", h.createPaymentMethod).Methods(http.MethodPost)
	r.HandleFunc("/paymentMethods/{id}", h.getPaymentMethod).Methods(http.MethodGet)
	r.HandleFunc("/paymentMethods/{id}", h.updatePaymentMethod).Methods(http.MethodPut)
	r.HandleFunc("/paymentMethods/{id}", h.deletePaymentMethod).Methods(http.MethodDelete)

	// Push tokens
	r.HandleFunc("/fcmTokens", h.listFCMTokens).Methods(http.MethodGet)
	r.HandleFunc("/fcmTokens", h.registerFCMToken).Methods(http.MethodPost)
	r.HandleFunc("/fcmTokens", h.deleteFCMToken).Methods(http.MethodDelete)

	r.HandleFunc("/receipts/scan", h.scanReceipt).Methods(http.MethodPost)

	if opts.Registry != nil {
		r.Use(middleware.NewMetrics(opts.Registry).Middleware)
	}
	if h.requireAuth {
		r.Use(middleware.RequireAuth(opts.JWT, publicRoutes...))
	}

	return middleware.Logging(h.logger)(r)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.Error("Health check failed", "error", err)
			writeMessage(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
