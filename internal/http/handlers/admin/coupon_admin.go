package admin

import (
	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Title             string  `json:"title" binding:"required"`
	StoreID           *uint   `json:"storeId"`
	Content           string  `json:"content"`
	KidsCount         int     `json:"kidsCount"`
	Price             float64 `json:"price"`
	PriceThirdParty   float64 `json:"priceThirdParty"`
	FreeParentsPerKid int     `json:"freeParentsPerKid"`
	Start             string  `json:"start"`
	End               string  `json:"end"`
	Enabled           *bool   `json:"enabled"`
}

func (r CouponRequest) toInput() (service.CouponInput, error) {
	start, err := parseTimeNullable(r.Start)
	if err != nil {
		return service.CouponInput{}, err
	}
	end, err := parseTimeNullable(r.End)
	if err != nil {
		return service.CouponInput{}, err
	}
	input := service.CouponInput{
		Title:             r.Title,
		StoreID:           r.StoreID,
		Content:           r.Content,
		KidsCount:         r.KidsCount,
		Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(r.Price)),
		PriceThirdParty:   models.NewMoneyFromDecimal(decimal.NewFromFloat(r.PriceThirdParty)),
		FreeParentsPerKid: r.FreeParentsPerKid,
		Enabled:           r.Enabled,
	}
	if start != nil {
		input.Start = *start
	}
	if end != nil {
		input.End = *end
	}
	return input, nil
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间格式不合法", err)
		return
	}
	coupon, err := h.CouponService.Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "优惠券ID不合法", nil)
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间格式不合法", err)
		return
	}
	coupon, err := h.CouponService.Update(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, coupon)
}

// GetCoupon 查询优惠券详情
func (h *Handler) GetCoupon(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "优惠券ID不合法", nil)
		return
	}
	coupon, err := h.CouponService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, coupon)
}

// ListCoupons 查询优惠券列表。enabled=true 时仅返回启用中的券
func (h *Handler) ListCoupons(c *gin.Context) {
	filter := repository.CouponListFilter{
		ListQuery: handlershared.ParseListQuery(c),
		StoreID:   handlershared.ParseUintQuery(c, "storeId"),
		Enabled:   handlershared.ParseBoolQuery(c, "enabled"),
	}
	coupons, total, err := h.CouponService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, coupons, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}
