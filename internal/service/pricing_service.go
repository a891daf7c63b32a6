package service

import (
	"time"

	"github.com/funfair-next/internal/config"
	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"

	"github.com/shopspring/decimal"
)

// PricingService 计价服务。基础价取 config.yml 默认值，settings 表的
// pricing.* 配置项优先。
type PricingService struct {
	settingService *SettingService
	defaults       config.PricingConfig
}

// NewPricingService 创建计价服务
func NewPricingService(settingService *SettingService, defaults config.PricingConfig) *PricingService {
	return &PricingService{
		settingService: settingService,
		defaults:       defaults,
	}
}

// PricingConfig 生效中的场馆计价参数
type PricingConfig struct {
	SockPrice               models.Money `json:"sockPrice"`
	ExtraParentFullDayPrice models.Money `json:"extraParentFullDayPrice"`
	KidFullDayPrice         models.Money `json:"kidFullDayPrice"`
	FreeParentsPerKid       int          `json:"freeParentsPerKid"`
}

// Config 返回生效中的计价参数（settings 覆盖默认值）
func (s *PricingService) Config() (*PricingConfig, error) {
	sockPrice, err := s.settingService.GetFloat(constants.SettingKeySockPrice, s.defaults.SockPrice)
	if err != nil {
		return nil, err
	}
	extraParent, err := s.settingService.GetFloat(constants.SettingKeyExtraParentFullDayPrice, s.defaults.ExtraParentFullDayPrice)
	if err != nil {
		return nil, err
	}
	kidFullDay, err := s.settingService.GetFloat(constants.SettingKeyKidFullDayPrice, s.defaults.KidFullDayPrice)
	if err != nil {
		return nil, err
	}
	freeParents, err := s.settingService.GetInt(constants.SettingKeyFreeParentsPerKid, s.defaults.FreeParentsPerKid)
	if err != nil {
		return nil, err
	}
	return &PricingConfig{
		SockPrice:               models.NewMoneyFromFloat(sockPrice),
		ExtraParentFullDayPrice: models.NewMoneyFromFloat(extraParent),
		KidFullDayPrice:         models.NewMoneyFromFloat(kidFullDay),
		FreeParentsPerKid:       freeParents,
	}, nil
}

// QuoteInput 计价输入
type QuoteInput struct {
	Type        string
	AdultsCount int
	KidsCount   int
	SocksCount  int
	Quantity    int
	Card        *models.Card
	Coupon      *models.Coupon
	Event       *models.Event
	Gift        *models.Gift
	Now         time.Time
}

// Quote 计价结果。Price 与 PriceInPoints 至少一项非空。
type Quote struct {
	Price         *models.Money `json:"price,omitempty"`
	PriceInPoints *int          `json:"priceInPoints,omitempty"`
}

// Quote 计算一笔预约的应收价格
func (s *PricingService) Quote(input QuoteInput) (*Quote, error) {
	if input.KidsCount < 0 || input.AdultsCount < 0 || input.SocksCount < 0 {
		return nil, ErrSchemaViolation
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	switch input.Type {
	case constants.BookingTypeEvent:
		return s.quoteEvent(input)
	case constants.BookingTypeGift:
		return s.quoteGift(input)
	}

	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}

	var price decimal.Decimal
	if input.Card != nil {
		price, err = s.cardPrice(input, cfg, now)
		if err != nil {
			return nil, err
		}
	} else {
		price = basePrice(input.KidsCount, input.AdultsCount, cfg)
	}
	price = price.Add(cfg.SockPrice.Mul(decimal.NewFromInt(int64(input.SocksCount))))

	if input.Coupon != nil {
		if !input.Coupon.Redeemable(now) {
			return nil, ErrExpiredPromotion
		}
		price = price.Sub(input.Coupon.Price.Decimal)
		if price.IsNegative() {
			price = decimal.Zero
		}
	}

	result := models.NewMoneyFromDecimal(price)
	return &Quote{Price: &result}, nil
}

// basePrice 基础门票价：儿童全天价 + 超出免费陪同配额的成人加价
func basePrice(kids, adults int, cfg *PricingConfig) decimal.Decimal {
	price := cfg.KidFullDayPrice.Mul(decimal.NewFromInt(int64(kids)))
	extraAdults := adults - cfg.FreeParentsPerKid*kids
	if extraAdults > 0 {
		price = price.Add(cfg.ExtraParentFullDayPrice.Mul(decimal.NewFromInt(int64(extraAdults))))
	}
	return price
}

// cardPrice 持卡核销价。一次核销覆盖 maxKids 名儿童：折扣一口价或折扣率
// 作用于覆盖部分，超出部分按 overPrice（缺省回落到儿童全天价）加收，
// 陪同成人按卡面 freeParentsPerKid 配额计算超额。
func (s *PricingService) cardPrice(input QuoteInput, cfg *PricingConfig, now time.Time) (decimal.Decimal, error) {
	card := input.Card
	// 次数用尽与时间过期分开报：前者可通过退次恢复，错误语义不同
	if card.LimitedTimes() && card.TimesLeft <= 0 {
		return decimal.Zero, ErrInsufficientCardUses
	}
	if status := EffectiveCardStatus(card, now); status != constants.CardStatusActivated {
		return decimal.Zero, ErrExpiredPromotion
	}

	coveredKids := input.KidsCount
	if coveredKids > card.MaxKids {
		coveredKids = card.MaxKids
	}
	extraKids := input.KidsCount - coveredKids

	var price decimal.Decimal
	switch {
	case card.DiscountPrice != nil:
		price = card.DiscountPrice.Decimal
	case card.DiscountRate != nil:
		covered := cfg.KidFullDayPrice.Mul(decimal.NewFromInt(int64(coveredKids)))
		price = covered.Mul(decimal.NewFromFloat(*card.DiscountRate))
	default:
		price = decimal.Zero
	}

	if extraKids > 0 {
		overPrice := cfg.KidFullDayPrice.Decimal
		if card.OverPrice != nil {
			overPrice = card.OverPrice.Decimal
		}
		price = price.Add(overPrice.Mul(decimal.NewFromInt(int64(extraKids))))
	}

	extraAdults := input.AdultsCount - card.FreeParentsPerKid*input.KidsCount
	if extraAdults > 0 {
		price = price.Add(cfg.ExtraParentFullDayPrice.Mul(decimal.NewFromInt(int64(extraAdults))))
	}
	return price, nil
}

// quoteEvent 活动价：取活动定价，现金与积分二选一或并存
func (s *PricingService) quoteEvent(input QuoteInput) (*Quote, error) {
	if input.Event == nil {
		return nil, ErrSchemaViolation
	}
	quote := &Quote{}
	if input.Event.Price != nil {
		price := models.NewMoneyFromDecimal(input.Event.Price.Decimal)
		quote.Price = &price
	}
	if input.Event.PriceInPoints > 0 {
		points := input.Event.PriceInPoints
		quote.PriceInPoints = &points
	}
	if quote.Price == nil && quote.PriceInPoints == nil {
		zero := models.NewMoneyFromDecimal(decimal.Zero)
		quote.Price = &zero
	}
	return quote, nil
}

// quoteGift 礼品兑换价：按数量乘单价
func (s *PricingService) quoteGift(input QuoteInput) (*Quote, error) {
	if input.Gift == nil {
		return nil, ErrSchemaViolation
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	quote := &Quote{}
	if input.Gift.Price != nil {
		price := models.NewMoneyFromDecimal(input.Gift.Price.Mul(decimal.NewFromInt(int64(quantity))))
		quote.Price = &price
	}
	if input.Gift.PriceInPoints > 0 {
		points := input.Gift.PriceInPoints * quantity
		quote.PriceInPoints = &points
	}
	if quote.Price == nil && quote.PriceInPoints == nil {
		zero := models.NewMoneyFromDecimal(decimal.Zero)
		quote.Price = &zero
	}
	return quote, nil
}
