package admin

import (
	"strings"

	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest 公告创建/更新请求
type PostRequest struct {
	Title     string   `json:"title" binding:"required"`
	Slug      string   `json:"slug"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	PosterURL *string  `json:"posterUrl"`
	Target    string   `json:"target"`
}

// CreatePost 创建公告
func (h *Handler) CreatePost(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	post, err := h.PostService.Create(service.PostInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Tags:      models.StringArray(req.Tags),
		PosterURL: req.PosterURL,
		Target:    req.Target,
		AuthorID:  &staffID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 更新公告
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "公告ID不合法", nil)
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	post, err := h.PostService.Update(id, service.PostInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Tags:      models.StringArray(req.Tags),
		PosterURL: req.PosterURL,
		Target:    req.Target,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPost 查询公告详情
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "公告ID不合法", nil)
		return
	}
	post, err := h.PostService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除公告
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "公告ID不合法", nil)
		return
	}
	if err := h.PostService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPosts 查询公告列表
func (h *Handler) ListPosts(c *gin.Context) {
	filter := repository.PostListFilter{
		ListQuery: handlershared.ParseListQuery(c),
		Slug:      strings.TrimSpace(c.Query("slug")),
		Tag:       strings.TrimSpace(c.Query("tag")),
	}
	posts, total, err := h.PostService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, posts, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}
