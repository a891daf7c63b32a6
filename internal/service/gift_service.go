package service

import (
	"strings"

	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// GiftService 礼品服务
type GiftService struct {
	repo      repository.GiftRepository
	storeRepo repository.StoreRepository
}

// NewGiftService 创建礼品服务
func NewGiftService(repo repository.GiftRepository, storeRepo repository.StoreRepository) *GiftService {
	return &GiftService{repo: repo, storeRepo: storeRepo}
}

// GiftInput 礼品创建/更新输入
type GiftInput struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	PosterURL     *string       `json:"posterUrl"`
	Quantity      int           `json:"quantity"`
	PriceInPoints int           `json:"priceInPoints"`
	Price         *models.Money `json:"price"`
	StoreID       uint          `json:"storeId"`
}

// Create 创建礼品
func (s *GiftService) Create(input GiftInput) (*models.Gift, error) {
	if strings.TrimSpace(input.Title) == "" || input.StoreID == 0 || input.Quantity < 0 {
		return nil, ErrSchemaViolation
	}
	store, err := s.storeRepo.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	gift := &models.Gift{
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		PosterURL:     input.PosterURL,
		Quantity:      input.Quantity,
		PriceInPoints: input.PriceInPoints,
		Price:         input.Price,
		StoreID:       input.StoreID,
	}
	if err := s.repo.Create(gift); err != nil {
		return nil, err
	}
	return gift, nil
}

// Update 更新礼品
func (s *GiftService) Update(id uint, input GiftInput) (*models.Gift, error) {
	gift, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if gift == nil {
		return nil, ErrGiftNotFound
	}
	if input.Quantity < 0 {
		return nil, ErrSchemaViolation
	}
	if strings.TrimSpace(input.Title) != "" {
		gift.Title = strings.TrimSpace(input.Title)
	}
	if input.StoreID != 0 && input.StoreID != gift.StoreID {
		store, err := s.storeRepo.GetByID(input.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
		gift.StoreID = input.StoreID
	}
	gift.Content = input.Content
	gift.PosterURL = input.PosterURL
	gift.Quantity = input.Quantity
	gift.PriceInPoints = input.PriceInPoints
	gift.Price = input.Price
	if err := s.repo.Update(gift); err != nil {
		return nil, err
	}
	return gift, nil
}

// GetByID 获取礼品
func (s *GiftService) GetByID(id uint) (*models.Gift, error) {
	gift, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if gift == nil {
		return nil, ErrGiftNotFound
	}
	return gift, nil
}

// Delete 删除礼品
func (s *GiftService) Delete(id uint) error {
	gift, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if gift == nil {
		return ErrGiftNotFound
	}
	return s.repo.Delete(id)
}

// List 获取礼品列表
func (s *GiftService) List(filter repository.GiftListFilter) ([]models.Gift, int64, error) {
	return s.repo.List(filter)
}
