package service

import (
	"testing"
	"time"

	"github.com/funfair-next/internal/config"
	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"

	"github.com/shopspring/decimal"
)

func defaultPricing() config.PricingConfig {
	return config.PricingConfig{
		SockPrice:               5,
		ExtraParentFullDayPrice: 50,
		KidFullDayPrice:         100,
		FreeParentsPerKid:       1,
	}
}

func TestQuoteBasePrice(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())

	// 2 儿童 ×100 + 1 超额成人 ×50 + 2 双袜子 ×5
	quote, err := svc.Quote(QuoteInput{
		Type:        constants.BookingTypePlay,
		KidsCount:   2,
		AdultsCount: 3,
		SocksCount:  2,
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.Price == nil || !quote.Price.Decimal.Equal(decimal.NewFromInt(260)) {
		t.Fatalf("expected 260, got %+v", quote.Price)
	}
}

func TestQuoteNoExtraAdultsWithinQuota(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())

	quote, err := svc.Quote(QuoteInput{
		Type:        constants.BookingTypePlay,
		KidsCount:   2,
		AdultsCount: 2,
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.Price == nil || !quote.Price.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200, got %s", quote.Price.Decimal.String())
	}
}

func TestQuoteNegativeCountsRejected(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	if _, err := svc.Quote(QuoteInput{Type: constants.BookingTypePlay, KidsCount: -1}); err != ErrSchemaViolation {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestQuoteCouponFloorsAtZero(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	now := time.Now()
	coupon := &models.Coupon{
		Enabled: true,
		Start:   now.Add(-time.Hour),
		End:     now.Add(time.Hour),
		Price:   models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
	}

	quote, err := svc.Quote(QuoteInput{
		Type:      constants.BookingTypePlay,
		KidsCount: 1,
		Coupon:    coupon,
		Now:       now,
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.Price == nil || !quote.Price.Decimal.IsZero() {
		t.Fatalf("expected 0, got %s", quote.Price.Decimal.String())
	}
}

func TestQuoteExpiredCouponRejected(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	now := time.Now()
	coupon := &models.Coupon{
		Enabled: true,
		Start:   now.Add(-48 * time.Hour),
		End:     now.Add(-24 * time.Hour),
		Price:   models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
	}

	if _, err := svc.Quote(QuoteInput{
		Type:      constants.BookingTypePlay,
		KidsCount: 1,
		Coupon:    coupon,
		Now:       now,
	}); err != ErrExpiredPromotion {
		t.Fatalf("expected ErrExpiredPromotion, got %v", err)
	}
}

func TestQuoteCardDiscountRateCoversKids(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	now := time.Now()
	rate := 0.5
	card := &models.Card{
		Status:            constants.CardStatusActivated,
		Start:             now.Add(-time.Hour),
		End:               now.Add(24 * time.Hour),
		MaxKids:           1,
		FreeParentsPerKid: 1,
		DiscountRate:      &rate,
	}

	// 覆盖 1 儿童 ×100×0.5 + 超出 1 儿童 ×100 + 1 超额成人 ×50
	quote, err := svc.Quote(QuoteInput{
		Type:        constants.BookingTypePlay,
		KidsCount:   2,
		AdultsCount: 3,
		Card:        card,
		Now:         now,
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.Price == nil || !quote.Price.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200, got %s", quote.Price.Decimal.String())
	}
}

func TestQuoteCardDiscountPriceWithOverPrice(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	now := time.Now()
	discount := models.NewMoneyFromDecimal(decimal.NewFromInt(30))
	over := models.NewMoneyFromDecimal(decimal.NewFromInt(60))
	card := &models.Card{
		Status:            constants.CardStatusActivated,
		Start:             now.Add(-time.Hour),
		End:               now.Add(24 * time.Hour),
		MaxKids:           1,
		FreeParentsPerKid: 1,
		DiscountPrice:     &discount,
		OverPrice:         &over,
	}

	// 一口价 30 + 超出 1 儿童 ×60
	quote, err := svc.Quote(QuoteInput{
		Type:        constants.BookingTypePlay,
		KidsCount:   2,
		AdultsCount: 2,
		Card:        card,
		Now:         now,
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.Price == nil || !quote.Price.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected 90, got %s", quote.Price.Decimal.String())
	}
}

func TestQuoteExpiredCardRejected(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	now := time.Now()
	card := &models.Card{
		Status: constants.CardStatusActivated,
		Start:  now.Add(-48 * time.Hour),
		End:    now.Add(-24 * time.Hour),
	}

	if _, err := svc.Quote(QuoteInput{
		Type:      constants.BookingTypePlay,
		KidsCount: 1,
		Card:      card,
		Now:       now,
	}); err != ErrExpiredPromotion {
		t.Fatalf("expected ErrExpiredPromotion, got %v", err)
	}
}

func TestQuoteCardTimesExhausted(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	now := time.Now()
	card := &models.Card{
		Status:    constants.CardStatusActivated,
		Start:     now.Add(-time.Hour),
		End:       now.Add(24 * time.Hour),
		Times:     10,
		TimesLeft: 0,
	}

	// 次数用尽不是时间过期，按次数不足报错
	if _, err := svc.Quote(QuoteInput{
		Type:      constants.BookingTypePlay,
		KidsCount: 1,
		Card:      card,
		Now:       now,
	}); err != ErrInsufficientCardUses {
		t.Fatalf("expected ErrInsufficientCardUses, got %v", err)
	}
}

func TestQuoteEventPricing(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	price := models.NewMoneyFromDecimal(decimal.NewFromInt(68))
	event := &models.Event{Price: &price, PriceInPoints: 200}

	quote, err := svc.Quote(QuoteInput{
		Type:  constants.BookingTypeEvent,
		Event: event,
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.Price == nil || !quote.Price.Decimal.Equal(decimal.NewFromInt(68)) {
		t.Fatalf("unexpected event price: %+v", quote.Price)
	}
	if quote.PriceInPoints == nil || *quote.PriceInPoints != 200 {
		t.Fatalf("unexpected event points: %+v", quote.PriceInPoints)
	}
}

func TestQuoteGiftMultipliesQuantity(t *testing.T) {
	svc := NewPricingService(nil, defaultPricing())
	gift := &models.Gift{PriceInPoints: 500}

	quote, err := svc.Quote(QuoteInput{
		Type:     constants.BookingTypeGift,
		Gift:     gift,
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("quote error: %v", err)
	}
	if quote.PriceInPoints == nil || *quote.PriceInPoints != 1500 {
		t.Fatalf("expected 1500 points, got %+v", quote.PriceInPoints)
	}
	if quote.Price != nil {
		t.Fatalf("expected nil cash price, got %s", quote.Price.Decimal.String())
	}
}

func TestPricingConfigSettingsOverride(t *testing.T) {
	db := openServiceTestDB(t, "pricing_settings_override")
	if err := db.Create(&models.Setting{
		Key:       constants.SettingKeySockPrice,
		ValueJSON: models.JSON{"value": 8},
	}).Error; err != nil {
		t.Fatalf("create setting failed: %v", err)
	}

	svc := NewPricingService(NewSettingService(repository.NewSettingRepository(db)), defaultPricing())
	cfg, err := svc.Config()
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	if !cfg.SockPrice.Decimal.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected overridden sock price 8, got %s", cfg.SockPrice.Decimal.String())
	}
	if !cfg.KidFullDayPrice.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected default kid price 100, got %s", cfg.KidFullDayPrice.Decimal.String())
	}
}
