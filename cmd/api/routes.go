package main

import (
	"context"
	"net/http"

	"github.com/VitMok/bank-backend/internal/handler"
	"github.com/VitMok/bank-backend/internal/middleware"
	"github.com/VitMok/bank-backend/internal/repository"
)

type handlers struct {
	auth     *handler.AuthHandler
	users    *handler.UserHandler
	accounts *handler.AccountHandler
	requests *handler.RequestHandler
	admin    *handler.AdminHandler
	ops      *handler.OperationsHandler
	fx       *handler.FXHandler
	health   *handler.HealthHandler
}

type idempotencyStore interface {
	Get(ctx context.Context, key string, userID int64) (*repository.IdempotencyCacheEntry, error)
	Set(ctx context.Context, entry *repository.IdempotencyCacheEntry) error
}

func newRouter(h handlers, jwtSecret string, idem idempotencyStore) http.Handler {
	once := middleware.Idempotency(idem)
	staff := middleware.RequireStaff

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/me", h.users.Me)

	api.HandleFunc("GET /api/v1/accounts", h.accounts.List)
	api.HandleFunc("GET /api/v1/accounts/{id}", h.accounts.Get)

	api.HandleFunc("POST /api/v1/account-request", h.requests.Create)
	api.HandleFunc("GET /api/v1/account-request", h.requests.Get)
	api.HandleFunc("DELETE /api/v1/account-request", h.requests.Withdraw)

	api.Handle("GET /api/v1/admin/requests", staff(http.HandlerFunc(h.admin.ListRequests)))
	api.Handle("GET /api/v1/admin/requests/{id}", staff(http.HandlerFunc(h.admin.GetRequest)))
	api.Handle("POST /api/v1/admin/requests/{id}/confirm", staff(http.HandlerFunc(h.admin.ConfirmRequest)))
	api.Handle("DELETE /api/v1/admin/requests/{id}", staff(http.HandlerFunc(h.admin.RejectRequest)))
	api.Handle("GET /api/v1/admin/accounts", staff(http.HandlerFunc(h.admin.ListAccounts)))
	api.Handle("GET /api/v1/admin/accounts/{id}", staff(http.HandlerFunc(h.admin.GetAccount)))
	api.Handle("DELETE /api/v1/admin/accounts/{id}", staff(http.HandlerFunc(h.admin.DeleteAccount)))

	api.Handle("POST /api/v1/operations/replenishments", staff(once(http.HandlerFunc(h.ops.Replenish))))
	api.Handle("POST /api/v1/operations/transfers/own", once(http.HandlerFunc(h.ops.TransferOwn)))
	api.Handle("POST /api/v1/operations/transfers/another", once(http.HandlerFunc(h.ops.TransferAnother)))
	api.Handle("POST /api/v1/operations/payments", once(http.HandlerFunc(h.ops.Pay)))
	api.HandleFunc("GET /api/v1/operations/replenishments", h.ops.ListReplenishments)
	api.HandleFunc("GET /api/v1/operations/transfers", h.ops.ListTransfers)
	api.HandleFunc("GET /api/v1/operations/payments", h.ops.ListPayments)
	api.HandleFunc("GET /api/v1/operations", h.ops.ListOperations)

	api.HandleFunc("GET /api/v1/fx/rates", h.fx.GetRate)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health.Liveness)
	mux.HandleFunc("GET /health/ready", h.health.Readiness)
	mux.Handle("POST /api/v1/auth/login", middleware.Logging(http.HandlerFunc(h.auth.Login)))
	mux.Handle("/api/v1/", middleware.Auth(jwtSecret)(middleware.Logging(api)))

	return middleware.RequestID(middleware.Recovery(mux))
}
