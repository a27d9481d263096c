package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpeer-backend/internal/adapter/middleware"
	"lendpeer-backend/internal/usecase/settlement"
)

type PaymentHandler struct{ uc *settlement.Usecase }

func NewPaymentHandler(uc *settlement.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type initiatePaymentReq struct {
	LoanID       string  `json:"loanId"       validate:"required,hex32"`
	Amount       float64 `json:"amount"       validate:"required,gt=0,dec2"`
	Method       string  `json:"method"       validate:"required"`
	PayerRole    string  `json:"payerRole"    validate:"required,oneof=LENDER BORROWER"`
	ReceiverRole string  `json:"receiverRole" validate:"required,oneof=LENDER BORROWER"`
}

func (h *PaymentHandler) Initiate(c echo.Context) error {
	var req initiatePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	out, err := h.uc.Initiate(c.Request().Context(), settlement.InitiateInput{
		ActorUserID:  middleware.UserID(c),
		LoanID:       req.LoanID,
		Amount:       req.Amount,
		Method:       payMethod(req.Method),
		PayerRole:    payRole(req.PayerRole),
		ReceiverRole: payRole(req.ReceiverRole),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type confirmStripeReq struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	PaymentID       string `json:"paymentId"       validate:"omitempty,hex32"`
}

func (h *PaymentHandler) ConfirmStripe(c echo.Context) error {
	var req confirmStripeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.ConfirmProvider(c.Request().Context(), settlement.ConfirmProviderInput{
		ActorUserID:      middleware.UserID(c),
		ProviderIntentID: req.PaymentIntentID,
		PaymentID:        req.PaymentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "payment": dto})
}

type confirmPayPalReq struct {
	PaymentID   string `json:"paymentId"   validate:"required"`
	PayerID     string `json:"payerId"     validate:"required"`
	DBPaymentID string `json:"dbPaymentId" validate:"omitempty,hex32"`
}

func (h *PaymentHandler) ConfirmPayPal(c echo.Context) error {
	var req confirmPayPalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.ConfirmPayout(c.Request().Context(), settlement.ConfirmPayoutInput{
		ActorUserID:       middleware.UserID(c),
		ProviderPaymentID: req.PaymentID,
		PayerID:           req.PayerID,
		PaymentID:         req.DBPaymentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "payment": dto})
}

type submitProofReq struct {
	PaymentID     string `json:"paymentId"      validate:"required,hex32"`
	TransactionID string `json:"transactionId"  validate:"required"`
	Note          string `json:"note"`
	ScreenshotRef string `json:"screenshotPath"`
}

func (h *PaymentHandler) SubmitManualProof(c echo.Context) error {
	var req submitProofReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.SubmitProof(c.Request().Context(), settlement.SubmitProofInput{
		ActorUserID:   middleware.UserID(c),
		PaymentID:     req.PaymentID,
		TransactionID: req.TransactionID,
		Note:          req.Note,
		ScreenshotRef: req.ScreenshotRef,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "payment": dto})
}

type confirmManualReq struct {
	PaymentID string `json:"paymentId" validate:"required,hex32"`
	Confirmed *bool  `json:"confirmed" validate:"required"`
	Note      string `json:"note"`
}

func (h *PaymentHandler) ConfirmManualPayment(c echo.Context) error {
	var req confirmManualReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.ConfirmManual(c.Request().Context(), settlement.ConfirmManualInput{
		ActorUserID: middleware.UserID(c),
		PaymentID:   req.PaymentID,
		Confirmed:   *req.Confirmed,
		Note:        req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "payment": dto})
}

func (h *PaymentHandler) ListByLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	rows, err := h.uc.ListByLoan(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"payments": rows})
}

func (h *PaymentHandler) Get(c echo.Context) error {
	paymentID := c.Param("payment_id")
	if !reHex32.MatchString(paymentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), paymentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
