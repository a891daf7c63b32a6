package service

import (
	"errors"
	"testing"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCardServiceTest(t *testing.T, name string) (*CardService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, name)
	svc := NewCardService(
		repository.NewCardRepository(db),
		repository.NewCardTypeRepository(db),
		repository.NewUserRepository(db),
		repository.NewPaymentRepository(db),
	)
	return svc, db
}

func createCardType(t *testing.T, db *gorm.DB, mutate func(*models.CardType)) *models.CardType {
	t.Helper()
	now := time.Now()
	cardType := &models.CardType{
		Title:             "测试次卡",
		Slug:              "test-times",
		Type:              constants.CardTypeKindTimes,
		Times:             10,
		Start:             now.Add(-time.Hour),
		End:               now.AddDate(0, 1, 0),
		Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(880)),
		MaxKids:           1,
		FreeParentsPerKid: 1,
		OpenForClient:     true,
	}
	if mutate != nil {
		mutate(cardType)
	}
	if err := db.Create(cardType).Error; err != nil {
		t.Fatalf("create card type failed: %v", err)
	}
	return cardType
}

func TestPurchaseCardCashActivatesImmediately(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_purchase_cash")
	_, customerID := createStoreAndCustomer(t, db)
	cardType := createCardType(t, db, nil)

	card, payment, err := svc.PurchaseCard(PurchaseCardInput{
		CustomerID:     customerID,
		CardTypeID:     cardType.ID,
		PaymentGateway: constants.PaymentGatewayCash,
	})
	if err != nil {
		t.Fatalf("purchase error: %v", err)
	}
	if card.Status != constants.CardStatusActivated || card.ActivatedAt == nil {
		t.Fatalf("expected activated card, got %+v", card)
	}
	if card.TimesLeft != 10 {
		t.Fatalf("expected snapshot times 10, got %d", card.TimesLeft)
	}
	if payment == nil || !payment.Paid || !payment.Amount.Decimal.Equal(decimal.NewFromInt(880)) {
		t.Fatalf("expected settled payment of 880, got %+v", payment)
	}
}

func TestPurchaseCardOnlineStaysPending(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_purchase_online")
	_, customerID := createStoreAndCustomer(t, db)
	cardType := createCardType(t, db, nil)

	card, payment, err := svc.PurchaseCard(PurchaseCardInput{
		CustomerID:     customerID,
		CardTypeID:     cardType.ID,
		PaymentGateway: constants.PaymentGatewayWechat,
	})
	if err != nil {
		t.Fatalf("purchase error: %v", err)
	}
	if card.Status != constants.CardStatusPending {
		t.Fatalf("expected pending until callback, got %s", card.Status)
	}
	if payment.Paid {
		t.Fatalf("online payment must not be pre-settled")
	}

	// 回调结清
	if err := svc.SettlePurchase(card.ID); err != nil {
		t.Fatalf("settle purchase error: %v", err)
	}
	settled, err := svc.GetByID(card.ID)
	if err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if settled.Status != constants.CardStatusActivated {
		t.Fatalf("expected activated after settle, got %s", settled.Status)
	}
}

func TestPurchaseCardBalanceInsufficient(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_purchase_balance")
	_, customerID := createStoreAndCustomer(t, db)
	cardType := createCardType(t, db, nil)

	if _, _, err := svc.PurchaseCard(PurchaseCardInput{
		CustomerID:     customerID,
		CardTypeID:     cardType.ID,
		PaymentGateway: constants.PaymentGatewayBalance,
	}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestPurchaseCardPerCustomerLimit(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_purchase_limit")
	_, customerID := createStoreAndCustomer(t, db)
	limit := 1
	cardType := createCardType(t, db, func(ct *models.CardType) {
		ct.MaxPerCustomer = &limit
	})

	if _, _, err := svc.PurchaseCard(PurchaseCardInput{
		CustomerID:             customerID,
		CardTypeID:             cardType.ID,
		AdminAddWithoutPayment: true,
	}); err != nil {
		t.Fatalf("first purchase error: %v", err)
	}
	if _, _, err := svc.PurchaseCard(PurchaseCardInput{
		CustomerID:             customerID,
		CardTypeID:             cardType.ID,
		AdminAddWithoutPayment: true,
	}); !errors.Is(err, ErrCardLimitExceeded) {
		t.Fatalf("expected ErrCardLimitExceeded, got %v", err)
	}
}

func TestEffectiveCardStatusLazyExpiry(t *testing.T) {
	now := time.Now()

	expiredByWindow := &models.Card{
		Status: constants.CardStatusActivated,
		Start:  now.Add(-48 * time.Hour),
		End:    now.Add(-time.Hour),
	}
	if got := EffectiveCardStatus(expiredByWindow, now); got != constants.CardStatusExpired {
		t.Fatalf("window expiry: want expired got %s", got)
	}

	expiredByTimes := &models.Card{
		Status:    constants.CardStatusActivated,
		Start:     now.Add(-time.Hour),
		End:       now.Add(24 * time.Hour),
		Times:     5,
		TimesLeft: 0,
	}
	if got := EffectiveCardStatus(expiredByTimes, now); got != constants.CardStatusExpired {
		t.Fatalf("times expiry: want expired got %s", got)
	}

	unlimited := &models.Card{
		Status:    constants.CardStatusActivated,
		Start:     now.Add(-time.Hour),
		End:       now.Add(24 * time.Hour),
		Times:     0,
		TimesLeft: 0,
	}
	if got := EffectiveCardStatus(unlimited, now); got != constants.CardStatusActivated {
		t.Fatalf("period card: want activated got %s", got)
	}

	// pending/canceled 不参与惰性判定
	pending := &models.Card{
		Status: constants.CardStatusPending,
		End:    now.Add(-time.Hour),
	}
	if got := EffectiveCardStatus(pending, now); got != constants.CardStatusPending {
		t.Fatalf("pending card: want pending got %s", got)
	}
}

func TestGetByIDAppliesLazyExpiry(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_lazy_read")
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

	got, err := svc.GetByID(card.ID)
	if err != nil {
		t.Fatalf("get card error: %v", err)
	}
	if got.Status != constants.CardStatusExpired {
		t.Fatalf("expected expired on read, got %s", got.Status)
	}

	// 落库状态保持不变，读取口径不写库
	var stored models.Card
	if err := db.First(&stored, card.ID).Error; err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if stored.Status != constants.CardStatusActivated {
		t.Fatalf("stored status should stay activated, got %s", stored.Status)
	}
}

func TestGiftCardWindowStartsAtActivation(t *testing.T) {
	now := time.Now()
	activated := now.Add(-time.Hour)
	card := &models.Card{
		Status:      constants.CardStatusActivated,
		IsGift:      true,
		Start:       now.Add(-30 * 24 * time.Hour),
		End:         now.Add(-20 * 24 * time.Hour),
		ActivatedAt: &activated,
	}

	// 卡种窗口已过，但激活重算后仍在有效期内
	if got := EffectiveCardStatus(card, now); got != constants.CardStatusActivated {
		t.Fatalf("expected activated, got %s", got)
	}
}

func TestRedeemGiftTransfersCard(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_redeem_gift")
	_, buyerID := createStoreAndCustomer(t, db)
	recipient := models.User{Role: constants.UserRoleCustomer, Name: "受赠人"}
	if err := db.Create(&recipient).Error; err != nil {
		t.Fatalf("create recipient failed: %v", err)
	}

	now := time.Now()
	card := models.Card{
		CustomerID: buyerID,
		CardTypeID: 1,
		Status:     constants.CardStatusValid,
		IsGift:     true,
		GiftCode:   "gift-code-001",
		Title:      "礼品卡",
		Slug:       "gift",
		Type:       constants.CardTypeKindPeriod,
		Start:      now.Add(-time.Hour),
		End:        now.AddDate(0, 1, 0),
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create gift card failed: %v", err)
	}

	redeemed, err := svc.RedeemGift("gift-code-001", recipient.ID)
	if err != nil {
		t.Fatalf("redeem error: %v", err)
	}
	if redeemed.CustomerID != recipient.ID || redeemed.Status != constants.CardStatusActivated {
		t.Fatalf("expected transfer to recipient, got %+v", redeemed)
	}
	if redeemed.GiftCode != "" {
		t.Fatalf("gift code must be cleared after redeem")
	}

	// 礼品码已核销，二次兑换失败
	if _, err := svc.RedeemGift("gift-code-001", buyerID); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound for consumed code, got %v", err)
	}
}

func TestRedeemGiftAlreadyRedeemed(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_redeem_twice")
	_, customerID := createStoreAndCustomer(t, db)
	now := time.Now()
	card := models.Card{
		CustomerID:   customerID,
		CardTypeID:   1,
		Status:       constants.CardStatusValid,
		IsGift:       true,
		GiftCode:     "gift-code-002",
		GiftRedeemed: true,
		Title:        "礼品卡",
		Slug:         "gift",
		Type:         constants.CardTypeKindPeriod,
		Start:        now.Add(-time.Hour),
		End:          now.AddDate(0, 1, 0),
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create gift card failed: %v", err)
	}

	if _, err := svc.RedeemGift("gift-code-002", customerID); !errors.Is(err, ErrGiftAlreadyRedeemed) {
		t.Fatalf("expected ErrGiftAlreadyRedeemed, got %v", err)
	}
}

func TestCancelPendingOnlyFromPending(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_cancel_pending")
	_, customerID := createStoreAndCustomer(t, db)
	cardType := createCardType(t, db, nil)

	card, _, err := svc.PurchaseCard(PurchaseCardInput{
		CustomerID:     customerID,
		CardTypeID:     cardType.ID,
		PaymentGateway: constants.PaymentGatewayWechat,
	})
	if err != nil {
		t.Fatalf("purchase error: %v", err)
	}
	if err := svc.CancelPending(card.ID); err != nil {
		t.Fatalf("cancel pending error: %v", err)
	}

	canceled, err := svc.GetByID(card.ID)
	if err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if canceled.Status != constants.CardStatusCanceled {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}

	// 已作废的卡二次作废被拒
	if err := svc.CancelPending(card.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestExpireSweepMarksExpiredCards(t *testing.T) {
	svc, db := newCardServiceTest(t, "card_expire_sweep")
	_, customerID := createStoreAndCustomer(t, db)
	now := time.Now()

	expired := models.Card{
		CustomerID: customerID,
		CardTypeID: 1,
		Status:     constants.CardStatusActivated,
		Title:      "已过期",
		Slug:       "swept",
		Type:       constants.CardTypeKindPeriod,
		Start:      now.Add(-48 * time.Hour),
		End:        now.Add(-time.Hour),
	}
	alive := models.Card{
		CustomerID: customerID,
		CardTypeID: 1,
		Status:     constants.CardStatusActivated,
		Title:      "仍有效",
		Slug:       "alive",
		Type:       constants.CardTypeKindPeriod,
		Start:      now.Add(-time.Hour),
		End:        now.AddDate(0, 1, 0),
	}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("create expired card failed: %v", err)
	}
	if err := db.Create(&alive).Error; err != nil {
		t.Fatalf("create alive card failed: %v", err)
	}

	swept, err := svc.ExpireSweep(100)
	if err != nil {
		t.Fatalf("expire sweep error: %v", err)
	}
	if swept != 1 {
		t.Fatalf("expected 1 swept, got %d", swept)
	}

	var stored models.Card
	if err := db.First(&stored, expired.ID).Error; err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if stored.Status != constants.CardStatusExpired {
		t.Fatalf("expected stored expired, got %s", stored.Status)
	}
	stored = models.Card{}
	if err := db.First(&stored, alive.ID).Error; err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if stored.Status != constants.CardStatusActivated {
		t.Fatalf("alive card must stay activated, got %s", stored.Status)
	}
}
