package http

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Base         *Handler
	Payments     *PaymentHandler
	Loans        *LoanHandler
	Accounts     *AccountHandler
	Terms        *TermHandler
	Invites      *InviteHandler
	Notification *NotificationHandler
}

// RegisterRoutes mounts the API. Everything except health and the invite
// lookup sits behind auth; mutating payment routes additionally carry the
// idempotency layer.
func RegisterRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Base.Health)

	// Invite lookup is public: the token itself is the capability.
	e.GET("/invite/:token", h.Invites.Lookup)

	api := e.Group("", auth)

	pay := api.Group("", idem)
	pay.POST("/payment", h.Payments.Initiate)
	pay.POST("/payment/confirm-stripe", h.Payments.ConfirmStripe)
	pay.POST("/payment/confirm-paypal", h.Payments.ConfirmPayPal)
	pay.POST("/payments/submit-manual-proof", h.Payments.SubmitManualProof)
	pay.POST("/payments/confirm-manual-payment", h.Payments.ConfirmManualPayment)

	api.GET("/payment/loan/:loan_id", h.Payments.ListByLoan)
	api.GET("/payment/:payment_id", h.Payments.Get)

	api.POST("/loans", h.Loans.Create)
	api.GET("/loans/lender", h.Loans.ListAsLender)
	api.GET("/loans/borrower", h.Loans.ListAsBorrower)
	api.GET("/loans/:loan_id", h.Loans.Get)
	api.POST("/loans/:loan_id/fund", h.Loans.Fund)
	api.POST("/loans/:loan_id/deny", h.Loans.Deny)

	api.POST("/payment-accounts", h.Accounts.Create)
	api.GET("/payment-accounts", h.Accounts.List)
	api.GET("/payment-accounts/:account_id", h.Accounts.Get)
	api.PATCH("/payment-accounts/:account_id", h.Accounts.Update)
	api.DELETE("/payment-accounts/:account_id", h.Accounts.Delete)

	api.POST("/terms", h.Terms.Create)
	api.GET("/terms", h.Terms.List)
	api.GET("/terms/:term_id", h.Terms.Get)
	api.PATCH("/terms/:term_id", h.Terms.Update)
	api.PUT("/terms/:term_id/preferences", h.Terms.UpdatePreferences)

	api.POST("/invite/:token/accept", h.Invites.Accept)
	api.GET("/relationships", h.Invites.ListRelationships)
	api.PATCH("/relationships/:relationship_id", h.Invites.SetRelationshipStatus)

	api.GET("/notifications", h.Notification.List)
	api.PATCH("/notifications/:notification_id/read", h.Notification.MarkRead)
}
