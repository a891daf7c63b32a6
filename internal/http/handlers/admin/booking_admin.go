package admin

import (
	"strings"

	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest 创建预约请求
type CreateBookingRequest struct {
	CustomerID  uint   `json:"customerId" binding:"required"`
	StoreID     uint   `json:"storeId" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Date        string `json:"date" binding:"required"`
	AdultsCount int    `json:"adultsCount"`
	KidsCount   int    `json:"kidsCount"`
	SocksCount  int    `json:"socksCount"`
	Quantity    int    `json:"quantity"`
	CardID      *uint  `json:"cardId"`
	CouponID    *uint  `json:"couponId"`
	EventID     *uint  `json:"eventId"`
	GiftID      *uint  `json:"giftId"`
	Remarks     string `json:"remarks"`
}

// CreateBooking 创建预约。paymentGateway/useBalance/adminAddWithoutPayment
// 通过查询参数传入，区别于预约自身的数据
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}

	booking, err := h.BookingService.CreateBooking(service.CreateBookingInput{
		CustomerID:             req.CustomerID,
		StoreID:                req.StoreID,
		Type:                   req.Type,
		Date:                   req.Date,
		AdultsCount:            req.AdultsCount,
		KidsCount:              req.KidsCount,
		SocksCount:             req.SocksCount,
		Quantity:               req.Quantity,
		CardID:                 req.CardID,
		CouponID:               req.CouponID,
		EventID:                req.EventID,
		GiftID:                 req.GiftID,
		Remarks:                req.Remarks,
		PaymentGateway:         strings.TrimSpace(c.Query("paymentGateway")),
		UseBalance:             c.Query("useBalance") == "true",
		AdminAddWithoutPayment: c.Query("adminAddWithoutPayment") == "true",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, booking)
}

// ListBookings 查询预约列表
func (h *Handler) ListBookings(c *gin.Context) {
	filter := repository.BookingListFilter{
		ListQuery:       handlershared.ParseListQuery(c),
		Type:            strings.TrimSpace(c.Query("type")),
		StoreID:         handlershared.ParseUintQuery(c, "storeId"),
		Date:            strings.TrimSpace(c.Query("date")),
		CustomerID:      handlershared.ParseUintQuery(c, "customerId"),
		CustomerKeyword: strings.TrimSpace(c.Query("keyword")),
		EventID:         handlershared.ParseUintQuery(c, "eventId"),
		GiftID:          handlershared.ParseUintQuery(c, "giftId"),
		CouponID:        handlershared.ParseUintQuery(c, "couponId"),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		filter.Statuses = strings.Split(raw, ",")
	}

	bookings, total, err := h.BookingService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, bookings, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetBooking 查询预约详情
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "预约ID不合法", nil)
		return
	}
	booking, err := h.BookingService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, booking)
}

// UpdateBookingRequest 预约修正请求
type UpdateBookingRequest struct {
	AdultsCount  *int    `json:"adultsCount"`
	KidsCount    *int    `json:"kidsCount"`
	SocksCount   *int    `json:"socksCount"`
	BandsPrinted *int    `json:"bandsPrinted"`
	Remarks      *string `json:"remarks"`
}

// UpdateBooking 服务中人数/耗材修正与备注更新
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "预约ID不合法", nil)
		return
	}
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}

	var booking *models.Booking
	var err error
	if req.AdultsCount != nil || req.KidsCount != nil || req.SocksCount != nil || req.BandsPrinted != nil {
		booking, err = h.BookingService.UpdateCounters(id, service.UpdateCountersInput{
			AdultsCount:  req.AdultsCount,
			KidsCount:    req.KidsCount,
			SocksCount:   req.SocksCount,
			BandsPrinted: req.BandsPrinted,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if req.Remarks != nil {
		booking, err = h.BookingService.UpdateRemarks(id, *req.Remarks)
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if booking == nil {
		booking, err = h.BookingService.GetByID(id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}
	response.Success(c, booking)
}

// CheckInBooking 到店签到
func (h *Handler) CheckInBooking(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "预约ID不合法", nil)
		return
	}
	booking, err := h.BookingService.CheckIn(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, booking)
}

// BookingRemarkRequest 带备注的预约操作请求
type BookingRemarkRequest struct {
	Remark string `json:"remark"`
}

// CancelBooking 取消预约并退款
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "预约ID不合法", nil)
		return
	}
	var req BookingRemarkRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.BookingService.Cancel(id, req.Remark)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, booking)
}

// RefundBooking 发起退款申请
func (h *Handler) RefundBooking(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "预约ID不合法", nil)
		return
	}
	booking, err := h.BookingService.RequestRefund(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, booking)
}

// FinishBooking 完成预约
func (h *Handler) FinishBooking(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "预约ID不合法", nil)
		return
	}
	var req BookingRemarkRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.BookingService.Finish(id, req.Remark)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, booking)
}

// AddBookingPaymentRequest 预约收款请求
type AddBookingPaymentRequest struct {
	Gateway        string   `json:"gateway" binding:"required"`
	Amount         *float64 `json:"amount"`
	AmountInPoints *int     `json:"amountInPoints"`
	UseBalance     bool     `json:"useBalance"`
	ForceDeposit   *float64 `json:"forceDeposit"`
}

// AddBookingPayment 对待支付预约收款
func (h *Handler) AddBookingPayment(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "预约ID不合法", nil)
		return
	}
	var req AddBookingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}

	input := service.AddPaymentInput{
		Gateway:        req.Gateway,
		AmountInPoints: req.AmountInPoints,
		UseBalance:     req.UseBalance,
	}
	if req.Amount != nil {
		amount := models.NewMoneyFromDecimal(decimal.NewFromFloat(*req.Amount))
		input.Amount = &amount
	}
	if req.ForceDeposit != nil {
		forceDeposit := models.NewMoneyFromDecimal(decimal.NewFromFloat(*req.ForceDeposit))
		input.ForceDeposit = &forceDeposit
	}

	payment, err := h.BookingService.AddPayment(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payment)
}
