package handler

import (
	"net/http"

	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

const idempotencyKeyHeader = "Idempotency-Key"

// /checkout, /orders/:id
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, session echo.MiddlewareFunc) {
	e.POST("/checkout", h.checkout, session)
	e.GET("/orders/:id", h.getOrder, session)
}

// 表示用（小数2桁に丸めるのはここだけ）
type OrderSummary struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discountAmount"`
	VAT            string `json:"vat"`
	Total          string `json:"total"`
}

type OrderResponse struct {
	usecase.OrderOutput
	Summary OrderSummary `json:"summary"`
}

func toOrderResponse(o usecase.OrderOutput) OrderResponse {
	return OrderResponse{
		OrderOutput: o,
		Summary: OrderSummary{
			Subtotal:       o.Subtotal.StringFixed(2),
			DiscountAmount: o.DiscountAmount.StringFixed(2),
			VAT:            o.VAT.StringFixed(2),
			Total:          o.Total.StringFixed(2),
		},
	}
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req validator.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	cmd, err := validator.ValidateCheckout(req, c.Request().Header.Get(idempotencyKeyHeader))
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.uc.PlaceOrder(c.Request().Context(), sid, cmd)
	if err != nil {
		return writeError(c, err)
	}

	// 既存注文の再送は200
	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, toOrderResponse(res.Order))
}

func (h *CheckoutHandler) getOrder(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	out, err := h.uc.GetOrder(c.Request().Context(), sid, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(out))
}
