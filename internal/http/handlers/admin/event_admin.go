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

// EventRequest 活动创建/更新请求
type EventRequest struct {
	Title         string      `json:"title" binding:"required"`
	Content       string      `json:"content"`
	PosterURL     *string     `json:"posterUrl"`
	KidsCountMax  *int        `json:"kidsCountMax"`
	Props         models.JSON `json:"props"`
	PriceInPoints int         `json:"priceInPoints"`
	Price         *float64    `json:"price"`
	Date          string      `json:"date" binding:"required"`
	StoreID       uint        `json:"storeId" binding:"required"`
}

func (r EventRequest) toInput() (service.EventInput, error) {
	date, err := parseTimeNullable(r.Date)
	if err != nil {
		return service.EventInput{}, err
	}
	input := service.EventInput{
		Title:         r.Title,
		Content:       r.Content,
		PosterURL:     r.PosterURL,
		KidsCountMax:  r.KidsCountMax,
		Props:         r.Props,
		PriceInPoints: r.PriceInPoints,
		StoreID:       r.StoreID,
	}
	if date != nil {
		input.Date = *date
	}
	if r.Price != nil {
		price := models.NewMoneyFromDecimal(decimal.NewFromFloat(*r.Price))
		input.Price = &price
	}
	return input, nil
}

// CreateEvent 创建活动
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间格式不合法", err)
		return
	}
	event, err := h.EventService.Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, event)
}

// UpdateEvent 更新活动
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "活动ID不合法", nil)
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间格式不合法", err)
		return
	}
	event, err := h.EventService.Update(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, event)
}

// GetEvent 查询活动详情
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "活动ID不合法", nil)
		return
	}
	event, err := h.EventService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, event)
}

// DeleteEvent 删除活动
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "活动ID不合法", nil)
		return
	}
	if err := h.EventService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListEvents 查询活动列表
func (h *Handler) ListEvents(c *gin.Context) {
	filter := repository.EventListFilter{
		ListQuery: handlershared.ParseListQuery(c),
		Keyword:   strings.TrimSpace(c.Query("keyword")),
		StoreID:   handlershared.ParseUintQuery(c, "storeId"),
	}
	events, total, err := h.EventService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, events, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}
