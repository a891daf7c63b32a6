package admin

import (
	"time"

	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CardTypeRequest 卡种创建/更新请求
type CardTypeRequest struct {
	Title             string   `json:"title" binding:"required"`
	Slug              string   `json:"slug" binding:"required"`
	Type              string   `json:"type" binding:"required"`
	IsGift            bool     `json:"isGift"`
	StoreID           *uint    `json:"storeId"`
	Content           string   `json:"content"`
	Times             int      `json:"times"`
	Start             string   `json:"start"`
	End               string   `json:"end"`
	Balance           float64  `json:"balance"`
	Price             float64  `json:"price"`
	MaxKids           int      `json:"maxKids"`
	FreeParentsPerKid int      `json:"freeParentsPerKid"`
	OpenForClient     *bool    `json:"openForClient"`
	CustomerTags      []string `json:"customerTags"`
	MaxPerCustomer    *int     `json:"maxPerCustomer"`
	OverPrice         *float64 `json:"overPrice"`
	DiscountPrice     *float64 `json:"discountPrice"`
	DiscountRate      *float64 `json:"discountRate"`
}

func (r CardTypeRequest) toInput() (service.CardTypeInput, error) {
	start, err := parseTimeNullable(r.Start)
	if err != nil {
		return service.CardTypeInput{}, err
	}
	end, err := parseTimeNullable(r.End)
	if err != nil {
		return service.CardTypeInput{}, err
	}
	input := service.CardTypeInput{
		Title:             r.Title,
		Slug:              r.Slug,
		Type:              r.Type,
		IsGift:            r.IsGift,
		StoreID:           r.StoreID,
		Content:           r.Content,
		Times:             r.Times,
		Balance:           models.NewMoneyFromDecimal(decimal.NewFromFloat(r.Balance)),
		Price:             models.NewMoneyFromDecimal(decimal.NewFromFloat(r.Price)),
		MaxKids:           r.MaxKids,
		FreeParentsPerKid: r.FreeParentsPerKid,
		OpenForClient:     r.OpenForClient,
		CustomerTags:      models.StringArray(r.CustomerTags),
		MaxPerCustomer:    r.MaxPerCustomer,
		DiscountRate:      r.DiscountRate,
	}
	if start != nil {
		input.Start = *start
	}
	if end != nil {
		input.End = *end
	}
	if r.OverPrice != nil {
		price := models.NewMoneyFromDecimal(decimal.NewFromFloat(*r.OverPrice))
		input.OverPrice = &price
	}
	if r.DiscountPrice != nil {
		price := models.NewMoneyFromDecimal(decimal.NewFromFloat(*r.DiscountPrice))
		input.DiscountPrice = &price
	}
	return input, nil
}

// parseTimeNullable 解析 RFC3339 时间串，空串返回 nil
func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateCardType 创建卡种
func (h *Handler) CreateCardType(c *gin.Context) {
	var req CardTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间格式不合法", err)
		return
	}
	cardType, err := h.CardTypeService.Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cardType)
}

// UpdateCardType 更新卡种
func (h *Handler) UpdateCardType(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "卡种ID不合法", nil)
		return
	}
	var req CardTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间格式不合法", err)
		return
	}
	cardType, err := h.CardTypeService.Update(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cardType)
}

// GetCardType 查询卡种详情
func (h *Handler) GetCardType(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "卡种ID不合法", nil)
		return
	}
	cardType, err := h.CardTypeService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cardType)
}

// ListCardTypes 查询卡种列表
func (h *Handler) ListCardTypes(c *gin.Context) {
	filter := repository.CardTypeListFilter{
		ListQuery:     handlershared.ParseListQuery(c),
		StoreID:       handlershared.ParseUintQuery(c, "storeId"),
		OpenForClient: handlershared.ParseBoolQuery(c, "openForClient"),
	}
	cardTypes, total, err := h.CardTypeService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, cardTypes, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}
