package handler

import (
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	Handler
	paymentService *service.PaymentService
}

func NewPaymentHandler(s *server.Server, paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		Handler:        NewHandler(s),
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreatePayment(c echo.Context, payload *payment.CreatePaymentPayload) (*payment.Payment, error) {
	return h.paymentService.CreatePayment(c.Request().Context(), payload)
}

func (h *PaymentHandler) GetPaymentByID(c echo.Context, payload *payment.GetPaymentByIDPayload) (*payment.Payment, error) {
	return h.paymentService.GetPayment(c.Request().Context(), payload.ID)
}

func (h *PaymentHandler) GetPayments(c echo.Context, query *payment.GetPaymentsQuery) (model.PaginatedResponse[payment.Payment], error) {
	return h.paymentService.ListPayments(c.Request().Context(), query)
}

func (h *PaymentHandler) CompletePayment(c echo.Context, payload *payment.CompletePaymentPayload) (*payment.Payment, error) {
	return h.paymentService.CompletePayment(c.Request().Context(), payload)
}

func (h *PaymentHandler) FailPayment(c echo.Context, payload *payment.FailPaymentPayload) (*payment.Payment, error) {
	return h.paymentService.FailPayment(c.Request().Context(), payload)
}

func (h *PaymentHandler) RefundPayment(c echo.Context, payload *payment.RefundPaymentPayload) (*payment.Payment, error) {
	return h.paymentService.RefundPayment(c.Request().Context(), payload.ID)
}

func (h *PaymentHandler) GetBalance(c echo.Context, payload *payment.GetBalancePayload) (*payment.Balance, error) {
	return h.paymentService.StudentBalance(c.Request().Context(), payload.StudentID)
}
