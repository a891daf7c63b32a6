package service

import (
	"strings"
	"time"

	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// EventService 门店活动服务
type EventService struct {
	repo      repository.EventRepository
	storeRepo repository.StoreRepository
}

// NewEventService 创建活动服务
func NewEventService(repo repository.EventRepository, storeRepo repository.StoreRepository) *EventService {
	return &EventService{repo: repo, storeRepo: storeRepo}
}

// EventInput 活动创建/更新输入
type EventInput struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	PosterURL     *string       `json:"posterUrl"`
	KidsCountMax  *int          `json:"kidsCountMax"`
	Props         models.JSON   `json:"props"`
	PriceInPoints int           `json:"priceInPoints"`
	Price         *models.Money `json:"price"`
	Date          time.Time     `json:"date"`
	StoreID       uint          `json:"storeId"`
}

// Create 创建活动。剩余名额初始化为名额上限
func (s *EventService) Create(input EventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Title) == "" || input.Date.IsZero() || input.StoreID == 0 {
		return nil, ErrSchemaViolation
	}
	if input.KidsCountMax != nil && *input.KidsCountMax < 0 {
		return nil, ErrSchemaViolation
	}
	store, err := s.storeRepo.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	event := &models.Event{
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		PosterURL:     input.PosterURL,
		KidsCountMax:  input.KidsCountMax,
		Props:         input.Props,
		PriceInPoints: input.PriceInPoints,
		Price:         input.Price,
		Date:          input.Date,
		StoreID:       input.StoreID,
	}
	if input.KidsCountMax != nil {
		left := *input.KidsCountMax
		event.KidsCountLeft = &left
	}
	if err := s.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// Update 更新活动。调整名额上限时按已占用名额折算剩余名额
func (s *EventService) Update(id uint, input EventInput) (*models.Event, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if strings.TrimSpace(input.Title) != "" {
		event.Title = strings.TrimSpace(input.Title)
	}
	if input.StoreID != 0 && input.StoreID != event.StoreID {
		store, err := s.storeRepo.GetByID(input.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
		event.StoreID = input.StoreID
	}
	if input.KidsCountMax == nil {
		event.KidsCountMax = nil
		event.KidsCountLeft = nil
	} else {
		if *input.KidsCountMax < 0 {
			return nil, ErrSchemaViolation
		}
		taken := 0
		if event.KidsCountMax != nil && event.KidsCountLeft != nil {
			taken = *event.KidsCountMax - *event.KidsCountLeft
		}
		left := *input.KidsCountMax - taken
		if left < 0 {
			left = 0
		}
		event.KidsCountMax = input.KidsCountMax
		event.KidsCountLeft = &left
	}
	event.Content = input.Content
	event.PosterURL = input.PosterURL
	event.Props = input.Props
	event.PriceInPoints = input.PriceInPoints
	event.Price = input.Price
	if !input.Date.IsZero() {
		event.Date = input.Date
	}
	if err := s.repo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetByID 获取活动
func (s *EventService) GetByID(id uint) (*models.Event, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// Delete 删除活动
func (s *EventService) Delete(id uint) error {
	event, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}
	return s.repo.Delete(id)
}

// List 获取活动列表
func (s *EventService) List(filter repository.EventListFilter) ([]models.Event, int64, error) {
	return s.repo.List(filter)
}
