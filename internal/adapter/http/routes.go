package http

import (
	"github.com/labstack/echo/v4"

	mw "loanverse/internal/adapter/middleware"
	"loanverse/internal/auth"
	"loanverse/internal/domain/identity"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Base      *Handler
	Auth      *AuthHandler
	Offers    *OfferHandler
	Admin     *AdminHandler
	Analytics *AnalyticsHandler
}

// RegisterRoutes wires the full API surface. extra middlewares (e.g. the
// redis idempotency guard) apply to the mutating marketplace routes only.
func RegisterRoutes(e *echo.Echo, tm *auth.TokenManager, h Handlers, extra ...echo.MiddlewareFunc) {
	e.Validator = NewValidator()

	e.GET("/health", h.Base.Health)
	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)

	api := e.Group("", mw.Authenticate(tm))

	api.GET("/offers", h.Offers.ListOffers)
	api.GET("/offers/:offer_id", h.Offers.GetOffer)
	api.GET("/offers/available", h.Offers.ListAvailable, mw.RequireRole(identity.RoleBorrower))
	api.GET("/requests/mine", h.Offers.MyLoans, mw.RequireRole(identity.RoleBorrower))

	lender := append([]echo.MiddlewareFunc{mw.RequireRole(identity.RoleLender)}, extra...)
	api.POST("/offers", h.Offers.CreateOffer, lender...)
	api.POST("/offers/:offer_id/requests/:borrower/approve", h.Offers.ApproveRequest, lender...)
	api.POST("/offers/:offer_id/requests/:borrower/reject", h.Offers.RejectRequest, lender...)

	borrower := append([]echo.MiddlewareFunc{mw.RequireRole(identity.RoleBorrower)}, extra...)
	api.POST("/offers/:offer_id/requests", h.Offers.RequestLoan, borrower...)
	api.POST("/offers/:offer_id/payments/:month", h.Offers.RecordPayment, borrower...)

	admin := api.Group("/admin", mw.RequireRole(identity.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", h.Admin.AddUser)
	admin.PUT("/users/:name", h.Admin.UpdateUser)
	admin.DELETE("/users/:name", h.Admin.RemoveUser)
	admin.DELETE("/ledger", h.Admin.ClearLedger)

	analyst := api.Group("/analytics", mw.RequireRole(identity.RoleAnalyst))
	analyst.GET("/summary", h.Analytics.Summary)
	analyst.GET("/status-distribution", h.Analytics.StatusDistribution)
	analyst.GET("/top-lenders", h.Analytics.TopLenders)
	analyst.GET("/agreements", h.Analytics.Agreements)
	analyst.GET("/export.csv", h.Analytics.ExportCSV)
}
