package service

import (
	"strings"

	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// PostService 公告服务
type PostService struct {
	repo repository.PostRepository
}

// NewPostService 创建公告服务
func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// PostInput 公告创建/更新输入
type PostInput struct {
	Title     string             `json:"title"`
	Slug      string             `json:"slug"`
	Content   string             `json:"content"`
	Tags      models.StringArray `json:"tags"`
	PosterURL *string            `json:"posterUrl"`
	Target    string             `json:"target"`
	AuthorID  *uint              `json:"authorId"`
}

// Create 创建公告
func (s *PostService) Create(input PostInput) (*models.Post, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrSchemaViolation
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		existing, err := s.repo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateSlug
		}
	}
	post := &models.Post{
		Title:     strings.TrimSpace(input.Title),
		Slug:      strings.TrimSpace(input.Slug),
		Content:   input.Content,
		Tags:      input.Tags,
		PosterURL: input.PosterURL,
		Target:    input.Target,
		AuthorID:  input.AuthorID,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update 更新公告
func (s *PostService) Update(id uint, input PostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if strings.TrimSpace(input.Title) != "" {
		post.Title = strings.TrimSpace(input.Title)
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != post.Slug {
		existing, err := s.repo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateSlug
		}
		post.Slug = slug
	}
	post.Content = input.Content
	post.Tags = input.Tags
	post.PosterURL = input.PosterURL
	post.Target = input.Target
	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetByID 获取公告
func (s *PostService) GetByID(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Delete 删除公告
func (s *PostService) Delete(id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	return s.repo.Delete(id)
}

// List 获取公告列表
func (s *PostService) List(filter repository.PostListFilter) ([]models.Post, int64, error) {
	return s.repo.List(filter)
}
