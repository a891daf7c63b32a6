package service

import (
	"strings"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// CardTypeService 会员卡卡种服务
type CardTypeService struct {
	repo      repository.CardTypeRepository
	storeRepo repository.StoreRepository
}

// NewCardTypeService 创建卡种服务
func NewCardTypeService(repo repository.CardTypeRepository, storeRepo repository.StoreRepository) *CardTypeService {
	return &CardTypeService{repo: repo, storeRepo: storeRepo}
}

// CardTypeInput 卡种创建/更新输入
type CardTypeInput struct {
	Title             string             `json:"title"`
	Slug              string             `json:"slug"`
	Type              string             `json:"type"`
	IsGift            bool               `json:"isGift"`
	StoreID           *uint              `json:"storeId"`
	Content           string             `json:"content"`
	Times             int                `json:"times"`
	Start             time.Time          `json:"start"`
	End               time.Time          `json:"end"`
	Balance           models.Money       `json:"balance"`
	Price             models.Money       `json:"price"`
	MaxKids           int                `json:"maxKids"`
	FreeParentsPerKid int                `json:"freeParentsPerKid"`
	OpenForClient     *bool              `json:"openForClient"`
	CustomerTags      models.StringArray `json:"customerTags"`
	MaxPerCustomer    *int               `json:"maxPerCustomer"`
	OverPrice         *models.Money      `json:"overPrice"`
	DiscountPrice     *models.Money      `json:"discountPrice"`
	DiscountRate      *float64           `json:"discountRate"`
}

func (s *CardTypeService) validateInput(input *CardTypeInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Slug) == "" {
		return ErrSchemaViolation
	}
	if !constants.ValidCardTypeKind(input.Type) {
		return ErrSchemaViolation
	}
	if !input.End.IsZero() && !input.Start.IsZero() && input.End.Before(input.Start) {
		return ErrInvalidDateRange
	}
	if input.DiscountRate != nil && (*input.DiscountRate < 0 || *input.DiscountRate > 1) {
		return ErrSchemaViolation
	}
	return nil
}

// Create 创建卡种
func (s *CardTypeService) Create(input CardTypeInput) (*models.CardType, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateSlug
	}
	if input.StoreID != nil {
		store, err := s.storeRepo.GetByID(*input.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
	}
	cardType := &models.CardType{
		Title:             strings.TrimSpace(input.Title),
		Slug:              slug,
		Type:              input.Type,
		IsGift:            input.IsGift,
		StoreID:           input.StoreID,
		Content:           input.Content,
		Times:             input.Times,
		Start:             input.Start,
		End:               input.End,
		Balance:           input.Balance,
		Price:             input.Price,
		MaxKids:           input.MaxKids,
		FreeParentsPerKid: input.FreeParentsPerKid,
		OpenForClient:     true,
		CustomerTags:      input.CustomerTags,
		MaxPerCustomer:    input.MaxPerCustomer,
		OverPrice:         input.OverPrice,
		DiscountPrice:     input.DiscountPrice,
		DiscountRate:      input.DiscountRate,
	}
	if input.OpenForClient != nil {
		cardType.OpenForClient = *input.OpenForClient
	}
	if cardType.MaxKids <= 0 {
		cardType.MaxKids = 1
	}
	if err := s.repo.Create(cardType); err != nil {
		return nil, err
	}
	return cardType, nil
}

// Update 更新卡种。已售出卡片保留购买时的卡种快照关联，模板修改只影响后续售卖
func (s *CardTypeService) Update(id uint, input CardTypeInput) (*models.CardType, error) {
	cardType, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cardType == nil {
		return nil, ErrCardTypeNotFound
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	if slug := strings.TrimSpace(input.Slug); slug != cardType.Slug {
		existing, err := s.repo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateSlug
		}
		cardType.Slug = slug
	}
	cardType.Title = strings.TrimSpace(input.Title)
	cardType.Type = input.Type
	cardType.IsGift = input.IsGift
	cardType.StoreID = input.StoreID
	cardType.Content = input.Content
	cardType.Times = input.Times
	cardType.Start = input.Start
	cardType.End = input.End
	cardType.Balance = input.Balance
	cardType.Price = input.Price
	cardType.MaxKids = input.MaxKids
	cardType.FreeParentsPerKid = input.FreeParentsPerKid
	if input.OpenForClient != nil {
		cardType.OpenForClient = *input.OpenForClient
	}
	cardType.CustomerTags = input.CustomerTags
	cardType.MaxPerCustomer = input.MaxPerCustomer
	cardType.OverPrice = input.OverPrice
	cardType.DiscountPrice = input.DiscountPrice
	cardType.DiscountRate = input.DiscountRate
	if err := s.repo.Update(cardType); err != nil {
		return nil, err
	}
	return cardType, nil
}

// GetByID 获取卡种
func (s *CardTypeService) GetByID(id uint) (*models.CardType, error) {
	cardType, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cardType == nil {
		return nil, ErrCardTypeNotFound
	}
	return cardType, nil
}

// GetBySlug 根据唯一标识获取卡种
func (s *CardTypeService) GetBySlug(slug string) (*models.CardType, error) {
	cardType, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if cardType == nil {
		return nil, ErrCardTypeNotFound
	}
	return cardType, nil
}

// List 获取卡种列表
func (s *CardTypeService) List(filter repository.CardTypeListFilter) ([]models.CardType, int64, error) {
	return s.repo.List(filter)
}
