package service

import (
	"context"
	"testing"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newBootstrapServiceTest(t *testing.T, name string) (*BootstrapService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, name)
	pricing := NewPricingService(NewSettingService(repository.NewSettingRepository(db)), defaultPricing())
	coupons := NewCouponService(repository.NewCouponRepository(db), repository.NewStoreRepository(db))
	svc := NewBootstrapService(
		pricing,
		coupons,
		repository.NewStoreRepository(db),
		repository.NewUserRepository(db),
		repository.NewCardTypeRepository(db),
		5,
	)
	return svc, db
}

func TestBootstrapUncredentialedFillsPublicBranchesOnly(t *testing.T) {
	svc, db := newBootstrapServiceTest(t, "bootstrap_public")
	if err := db.Create(&models.Store{Name: "滨江店"}).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	cfg := svc.Load(context.Background(), LoadInput{})

	if cfg.SockPrice == nil || !cfg.SockPrice.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected default sock price 5, got %v", cfg.SockPrice)
	}
	if cfg.KidFullDayPrice == nil || !cfg.KidFullDayPrice.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected default kid price 100, got %v", cfg.KidFullDayPrice)
	}
	if len(cfg.Stores) != 1 || cfg.Stores[0].Name != "滨江店" {
		t.Fatalf("expected one store, got %+v", cfg.Stores)
	}

	// 未持凭证时鉴权分支解析为缺失
	if cfg.User != nil || cfg.CardTypes != nil || cfg.Coupons != nil {
		t.Fatalf("credentialed branches must stay nil, got user=%v cardTypes=%v coupons=%v", cfg.User, cfg.CardTypes, cfg.Coupons)
	}
}

func TestBootstrapSeedSkipsBranch(t *testing.T) {
	svc, db := newBootstrapServiceTest(t, "bootstrap_seed")
	if err := db.Create(&models.Store{Name: "数据库里的店"}).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	seeded := []models.Store{{Name: "调用方自带的店"}}
	cfg := svc.Load(context.Background(), LoadInput{Seed: SessionConfig{Stores: seeded}})

	if len(cfg.Stores) != 1 || cfg.Stores[0].Name != "调用方自带的店" {
		t.Fatalf("seeded stores must be preserved, got %+v", cfg.Stores)
	}
}

func TestBootstrapCredentialedFillsUserWithLazyCardStatus(t *testing.T) {
	svc, db := newBootstrapServiceTest(t, "bootstrap_user")
	_, customerID := createStoreAndCustomer(t, db)
	now := time.Now()
	card := models.Card{
		CustomerID: customerID,
		CardTypeID: 1,
		Status:     constants.CardStatusActivated,
		Title:      "过期卡",
		Slug:       "expired",
		Type:       constants.CardTypeKindPeriod,
		Start:      now.Add(-48 * time.Hour),
		End:        now.Add(-time.Hour),
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card failed: %v", err)
	}
	cardType := createCardType(t, db, nil)
	coupon := models.Coupon{
		Title:   "新客券",
		Price:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		Enabled: true,
		Start:   now.Add(-time.Hour),
		End:     now.AddDate(0, 1, 0),
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	cfg := svc.Load(context.Background(), LoadInput{UserID: customerID})

	if cfg.User == nil || cfg.User.ID != customerID {
		t.Fatalf("expected user filled, got %+v", cfg.User)
	}
	if len(cfg.User.Cards) != 1 || cfg.User.Cards[0].Status != constants.CardStatusExpired {
		t.Fatalf("expected lazy-expired card on user, got %+v", cfg.User.Cards)
	}
	if len(cfg.CardTypes) != 1 || cfg.CardTypes[0].ID != cardType.ID {
		t.Fatalf("expected card types filled, got %+v", cfg.CardTypes)
	}
	if len(cfg.Coupons) != 1 || cfg.Coupons[0].ID != coupon.ID {
		t.Fatalf("expected coupons filled, got %+v", cfg.Coupons)
	}
}

func TestBootstrapBranchFailureDegradesToMissing(t *testing.T) {
	svc, db := newBootstrapServiceTest(t, "bootstrap_degrade")
	_, customerID := createStoreAndCustomer(t, db)

	// 删除优惠券表制造单分支故障，其余分支不受影响
	if err := db.Migrator().DropTable(&models.Coupon{}); err != nil {
		t.Fatalf("drop table failed: %v", err)
	}

	cfg := svc.Load(context.Background(), LoadInput{UserID: customerID})

	if cfg.Coupons != nil {
		t.Fatalf("failed branch must resolve to nil, got %+v", cfg.Coupons)
	}
	if cfg.User == nil || cfg.Stores == nil || cfg.SockPrice == nil {
		t.Fatalf("healthy branches must still fill: user=%v stores=%v sockPrice=%v", cfg.User, cfg.Stores, cfg.SockPrice)
	}
}

func TestBootstrapUnknownUserDegradesToMissing(t *testing.T) {
	svc, _ := newBootstrapServiceTest(t, "bootstrap_unknown_user")

	cfg := svc.Load(context.Background(), LoadInput{UserID: 9999})

	if cfg.User != nil {
		t.Fatalf("unknown user must resolve to nil, got %+v", cfg.User)
	}
	if cfg.Stores == nil || cfg.SockPrice == nil {
		t.Fatalf("public branches must still fill")
	}
}
