package admin

import (
	"strings"

	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListPayments 查询支付流水
func (h *Handler) ListPayments(c *gin.Context) {
	filter := repository.PaymentListFilter{
		ListQuery:  handlershared.ParseListQuery(c),
		Date:       strings.TrimSpace(c.Query("date")),
		Paid:       handlershared.ParseBoolQuery(c, "paid"),
		CustomerID: handlershared.ParseUintQuery(c, "customerId"),
		BookingID:  handlershared.ParseUintQuery(c, "bookingId"),
		Attach:     strings.TrimSpace(c.Query("attach")),
		Gateway:    strings.TrimSpace(c.Query("gateway")),
		Direction:  strings.TrimSpace(c.Query("direction")),
	}
	payments, total, err := h.PaymentService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, payments, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetPayment 查询支付详情
func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "支付ID不合法", nil)
		return
	}
	payment, err := h.PaymentService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payment)
}

// CreateOnlinePayment 对待支付账单发起线上收款（扫码/跳转）
func (h *Handler) CreateOnlinePayment(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "支付ID不合法", nil)
		return
	}
	result, err := h.PaymentService.CreateOnline(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// RefundPaymentRequest 退款请求
type RefundPaymentRequest struct {
	Remark string `json:"remark"`
}

// RefundPayment 对已支付账单退款
func (h *Handler) RefundPayment(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "支付ID不合法", nil)
		return
	}
	var req RefundPaymentRequest
	_ = c.ShouldBindJSON(&req)

	refund, err := h.PaymentService.Refund(id, req.Remark)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, refund)
}
