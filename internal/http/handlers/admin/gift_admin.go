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

// GiftRequest 礼品创建/更新请求
type GiftRequest struct {
	Title         string   `json:"title" binding:"required"`
	Content       string   `json:"content"`
	PosterURL     *string  `json:"posterUrl"`
	Quantity      int      `json:"quantity"`
	PriceInPoints int      `json:"priceInPoints"`
	Price         *float64 `json:"price"`
	StoreID       uint     `json:"storeId" binding:"required"`
}

func (r GiftRequest) toInput() service.GiftInput {
	input := service.GiftInput{
		Title:         r.Title,
		Content:       r.Content,
		PosterURL:     r.PosterURL,
		Quantity:      r.Quantity,
		PriceInPoints: r.PriceInPoints,
		StoreID:       r.StoreID,
	}
	if r.Price != nil {
		price := models.NewMoneyFromDecimal(decimal.NewFromFloat(*r.Price))
		input.Price = &price
	}
	return input
}

// CreateGift 创建礼品
func (h *Handler) CreateGift(c *gin.Context) {
	var req GiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	gift, err := h.GiftService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gift)
}

// UpdateGift 更新礼品
func (h *Handler) UpdateGift(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "礼品ID不合法", nil)
		return
	}
	var req GiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	gift, err := h.GiftService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gift)
}

// GetGift 查询礼品详情
func (h *Handler) GetGift(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "礼品ID不合法", nil)
		return
	}
	gift, err := h.GiftService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gift)
}

// DeleteGift 删除礼品
func (h *Handler) DeleteGift(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "礼品ID不合法", nil)
		return
	}
	if err := h.GiftService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListGifts 查询礼品列表
func (h *Handler) ListGifts(c *gin.Context) {
	filter := repository.GiftListFilter{
		ListQuery: handlershared.ParseListQuery(c),
		Keyword:   strings.TrimSpace(c.Query("keyword")),
		StoreID:   handlershared.ParseUintQuery(c, "storeId"),
	}
	gifts, total, err := h.GiftService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, gifts, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}
