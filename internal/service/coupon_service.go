package service

import (
	"strings"
	"time"

	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// CouponService 优惠券服务
type CouponService struct {
	repo      repository.CouponRepository
	storeRepo repository.StoreRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(repo repository.CouponRepository, storeRepo repository.StoreRepository) *CouponService {
	return &CouponService{repo: repo, storeRepo: storeRepo}
}

// CouponInput 优惠券创建/更新输入
type CouponInput struct {
	Title             string       `json:"title"`
	StoreID           *uint        `json:"storeId"`
	Content           string       `json:"content"`
	KidsCount         int          `json:"kidsCount"`
	Price             models.Money `json:"price"`
	PriceThirdParty   models.Money `json:"priceThirdParty"`
	FreeParentsPerKid int          `json:"freeParentsPerKid"`
	Start             time.Time    `json:"start"`
	End               time.Time    `json:"end"`
	Enabled           *bool        `json:"enabled"`
}

// Create 创建优惠券
func (s *CouponService) Create(input CouponInput) (*models.Coupon, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrSchemaViolation
	}
	if !input.End.IsZero() && !input.Start.IsZero() && input.End.Before(input.Start) {
		return nil, ErrInvalidDateRange
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
	coupon := &models.Coupon{
		Title:             strings.TrimSpace(input.Title),
		StoreID:           input.StoreID,
		Content:           input.Content,
		KidsCount:         input.KidsCount,
		Price:             input.Price,
		PriceThirdParty:   input.PriceThirdParty,
		FreeParentsPerKid: input.FreeParentsPerKid,
		Start:             input.Start,
		End:               input.End,
		Enabled:           true,
	}
	if input.Enabled != nil {
		coupon.Enabled = *input.Enabled
	}
	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券
func (s *CouponService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if strings.TrimSpace(input.Title) != "" {
		coupon.Title = strings.TrimSpace(input.Title)
	}
	if !input.End.IsZero() && !input.Start.IsZero() && input.End.Before(input.Start) {
		return nil, ErrInvalidDateRange
	}
	coupon.StoreID = input.StoreID
	coupon.Content = input.Content
	coupon.KidsCount = input.KidsCount
	coupon.Price = input.Price
	coupon.PriceThirdParty = input.PriceThirdParty
	coupon.FreeParentsPerKid = input.FreeParentsPerKid
	if !input.Start.IsZero() {
		coupon.Start = input.Start
	}
	if !input.End.IsZero() {
		coupon.End = input.End
	}
	if input.Enabled != nil {
		coupon.Enabled = *input.Enabled
	}
	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetByID 获取优惠券
func (s *CouponService) GetByID(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List 获取优惠券列表
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

// ListRedeemable 获取当前可核销的优惠券（启用且在有效期内）
func (s *CouponService) ListRedeemable() ([]models.Coupon, error) {
	enabled := true
	coupons, _, err := s.repo.List(repository.CouponListFilter{
		ListQuery: repository.ListQuery{NoLimit: true},
		Enabled:   &enabled,
	})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	redeemable := make([]models.Coupon, 0, len(coupons))
	for i := range coupons {
		if coupons[i].Redeemable(now) {
			redeemable = append(redeemable, coupons[i])
		}
	}
	return redeemable, nil
}
