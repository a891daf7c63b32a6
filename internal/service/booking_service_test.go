package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// openServiceTestDB 打开独立的内存库并迁移全部表。服务内事务走
// models.DB，一并指向测试库。
func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	// 共享缓存内存库在并发连接下会报表锁，收敛为单连接
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(
		&models.Store{}, &models.User{}, &models.CardType{}, &models.Card{},
		&models.Coupon{}, &models.Event{}, &models.Gift{}, &models.Payment{},
		&models.Booking{}, &models.Post{}, &models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func newBookingServiceTest(t *testing.T, name string) (*BookingService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, name)
	pricing := NewPricingService(nil, defaultPricing())
	svc := NewBookingService(
		repository.NewBookingRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewCardRepository(db),
		repository.NewCouponRepository(db),
		repository.NewEventRepository(db),
		repository.NewGiftRepository(db),
		repository.NewUserRepository(db),
		repository.NewStoreRepository(db),
		pricing, nil, 30,
	)
	return svc, db
}

func createStoreAndCustomer(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()
	store := models.Store{Name: fmt.Sprintf("门店_%d", time.Now().UnixNano())}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	customer := models.User{Role: constants.UserRoleCustomer, Name: "测试客户"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return store.ID, customer.ID
}

func TestAllowedBookingTransitions(t *testing.T) {
	cases := []struct {
		from  string
		to    string
		allow bool
	}{
		{constants.BookingStatusPending, constants.BookingStatusBooked, true},
		{constants.BookingStatusPending, constants.BookingStatusCanceled, true},
		{constants.BookingStatusPending, constants.BookingStatusInService, false},
		{constants.BookingStatusPending, constants.BookingStatusFinished, false},
		{constants.BookingStatusBooked, constants.BookingStatusInService, true},
		{constants.BookingStatusBooked, constants.BookingStatusPendingRefund, true},
		{constants.BookingStatusBooked, constants.BookingStatusCanceled, true},
		{constants.BookingStatusBooked, constants.BookingStatusFinished, false},
		{constants.BookingStatusInService, constants.BookingStatusFinished, true},
		{constants.BookingStatusInService, constants.BookingStatusPendingRefund, true},
		{constants.BookingStatusInService, constants.BookingStatusCanceled, false},
		{constants.BookingStatusInService, constants.BookingStatusBooked, false},
		{constants.BookingStatusPendingRefund, constants.BookingStatusFinished, true},
		{constants.BookingStatusPendingRefund, constants.BookingStatusCanceled, false},
		{constants.BookingStatusFinished, constants.BookingStatusInService, false},
		{constants.BookingStatusCanceled, constants.BookingStatusBooked, false},
	}
	for _, c := range cases {
		if got := AllowedBookingTransition(c.from, c.to); got != c.allow {
			t.Fatalf("transition %s->%s: want %v got %v", c.from, c.to, c.allow, got)
		}
	}
}

func TestCreateBookingCashSettlesImmediately(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_cash_settle")
	storeID, customerID := createStoreAndCustomer(t, db)

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:     customerID,
		StoreID:        storeID,
		Type:           constants.BookingTypePlay,
		KidsCount:      2,
		AdultsCount:    3,
		SocksCount:     2,
		PaymentGateway: constants.PaymentGatewayCash,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}
	if booking.Status != constants.BookingStatusBooked {
		t.Fatalf("expected booked, got %s", booking.Status)
	}
	if booking.Price == nil || !booking.Price.Decimal.Equal(decimal.NewFromInt(260)) {
		t.Fatalf("expected price 260, got %+v", booking.Price)
	}

	var payments []models.Payment
	if err := db.Where("booking_id = ?", booking.ID).Find(&payments).Error; err != nil {
		t.Fatalf("load payments failed: %v", err)
	}
	if len(payments) != 1 || !payments[0].Paid {
		t.Fatalf("expected one settled payment, got %+v", payments)
	}
}

func TestAddPaymentSplitAndExactSettlement(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_split_settle")
	storeID, customerID := createStoreAndCustomer(t, db)
	if err := db.Model(&models.User{}).Where("id = ?", customerID).
		Update("balance_deposit", "100").Error; err != nil {
		t.Fatalf("fund balance failed: %v", err)
	}

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:  customerID,
		StoreID:     storeID,
		Type:        constants.BookingTypePlay,
		KidsCount:   2,
		AdultsCount: 3,
		SocksCount:  2,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}
	if booking.Status != constants.BookingStatusPending {
		t.Fatalf("expected pending, got %s", booking.Status)
	}

	// 溢收拒绝
	over := models.NewMoneyFromDecimal(decimal.NewFromInt(300))
	if _, err := svc.AddPayment(booking.ID, AddPaymentInput{
		Gateway: constants.PaymentGatewayCash,
		Amount:  &over,
	}); !errors.Is(err, ErrPriceMismatch) {
		t.Fatalf("expected ErrPriceMismatch, got %v", err)
	}

	// 现金 200，未结清
	cash := models.NewMoneyFromDecimal(decimal.NewFromInt(200))
	if _, err := svc.AddPayment(booking.ID, AddPaymentInput{
		Gateway: constants.PaymentGatewayCash,
		Amount:  &cash,
	}); err != nil {
		t.Fatalf("cash payment error: %v", err)
	}
	current, err := svc.GetByID(booking.ID)
	if err != nil {
		t.Fatalf("reload booking failed: %v", err)
	}
	if current.Status != constants.BookingStatusPending {
		t.Fatalf("expected still pending, got %s", current.Status)
	}

	// 余额 60 补齐，金额精确匹配后转 booked
	balance := models.NewMoneyFromDecimal(decimal.NewFromInt(60))
	if _, err := svc.AddPayment(booking.ID, AddPaymentInput{
		Gateway: constants.PaymentGatewayBalance,
		Amount:  &balance,
	}); err != nil {
		t.Fatalf("balance payment error: %v", err)
	}
	current, err = svc.GetByID(booking.ID)
	if err != nil {
		t.Fatalf("reload booking failed: %v", err)
	}
	if current.Status != constants.BookingStatusBooked {
		t.Fatalf("expected booked, got %s", current.Status)
	}

	var customer models.User
	if err := db.First(&customer, customerID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if !customer.BalanceDeposit.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected deposit 40, got %s", customer.BalanceDeposit.Decimal.String())
	}

	// 已结清后继续收款被拒绝
	extra := models.NewMoneyFromDecimal(decimal.NewFromInt(1))
	if _, err := svc.AddPayment(booking.ID, AddPaymentInput{
		Gateway: constants.PaymentGatewayCash,
		Amount:  &extra,
	}); !errors.Is(err, ErrBookingNotPayable) {
		t.Fatalf("expected ErrBookingNotPayable, got %v", err)
	}
}

func TestAddPaymentInsufficientBalance(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_balance_short")
	storeID, customerID := createStoreAndCustomer(t, db)

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID: customerID,
		StoreID:    storeID,
		Type:       constants.BookingTypePlay,
		KidsCount:  1,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}

	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(100))
	if _, err := svc.AddPayment(booking.ID, AddPaymentInput{
		Gateway: constants.PaymentGatewayBalance,
		Amount:  &amount,
	}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestCheckInRequiresBooked(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_checkin_guard")
	storeID, customerID := createStoreAndCustomer(t, db)

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID: customerID,
		StoreID:    storeID,
		Type:       constants.BookingTypePlay,
		KidsCount:  1,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}

	if _, err := svc.CheckIn(booking.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for pending check-in, got %v", err)
	}
}

func TestBookingLifecycleCheckInFinish(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_lifecycle")
	storeID, customerID := createStoreAndCustomer(t, db)

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:     customerID,
		StoreID:        storeID,
		Type:           constants.BookingTypePlay,
		KidsCount:      1,
		PaymentGateway: constants.PaymentGatewayCash,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}

	booking, err = svc.CheckIn(booking.ID)
	if err != nil {
		t.Fatalf("check in error: %v", err)
	}
	if booking.Status != constants.BookingStatusInService || booking.CheckInAt == nil {
		t.Fatalf("expected in_service with check-in time, got %+v", booking)
	}

	booking, err = svc.UpdateCounters(booking.ID, UpdateCountersInput{SocksCount: intPtr(3)})
	if err != nil {
		t.Fatalf("update counters error: %v", err)
	}
	if booking.SocksCount != 3 {
		t.Fatalf("expected socks 3, got %d", booking.SocksCount)
	}

	booking, err = svc.Finish(booking.ID, "")
	if err != nil {
		t.Fatalf("finish error: %v", err)
	}
	if booking.Status != constants.BookingStatusFinished {
		t.Fatalf("expected finished, got %s", booking.Status)
	}
}

func TestCancelRefundsSettledPayments(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_cancel_refund")
	storeID, customerID := createStoreAndCustomer(t, db)

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:     customerID,
		StoreID:        storeID,
		Type:           constants.BookingTypePlay,
		KidsCount:      1,
		PaymentGateway: constants.PaymentGatewayCash,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}

	booking, err = svc.Cancel(booking.ID, "客户有事")
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if booking.Status != constants.BookingStatusCanceled {
		t.Fatalf("expected canceled, got %s", booking.Status)
	}

	var payments []models.Payment
	if err := db.Where("booking_id = ?", booking.ID).Order("id").Find(&payments).Error; err != nil {
		t.Fatalf("load payments failed: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected payment + refund, got %d", len(payments))
	}
	refund := payments[1]
	if refund.OriginalID == nil || *refund.OriginalID != payments[0].ID {
		t.Fatalf("refund should reference original payment, got %+v", refund)
	}
	if !refund.Amount.Decimal.Equal(payments[0].Amount.Decimal.Neg()) {
		t.Fatalf("refund amount should negate original, got %s", refund.Amount.Decimal.String())
	}
}

func TestCancelRestoresBothBalanceOrigins(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_cancel_balance")
	storeID, customerID := createStoreAndCustomer(t, db)
	if err := db.Model(&models.User{}).Where("id = ?", customerID).
		Updates(map[string]interface{}{"balance_deposit": "40", "balance_reward": "220"}).Error; err != nil {
		t.Fatalf("fund balance failed: %v", err)
	}

	// 260 元整单走余额，赠送优先扣 220，储值补 40
	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:     customerID,
		StoreID:        storeID,
		Type:           constants.BookingTypePlay,
		KidsCount:      2,
		AdultsCount:    3,
		SocksCount:     2,
		PaymentGateway: constants.PaymentGatewayBalance,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}
	if booking.Status != constants.BookingStatusBooked {
		t.Fatalf("expected booked, got %s", booking.Status)
	}

	var customer models.User
	if err := db.First(&customer, customerID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if !customer.BalanceDeposit.Decimal.IsZero() || !customer.BalanceReward.Decimal.IsZero() {
		t.Fatalf("expected wallet drained, got deposit=%s reward=%s",
			customer.BalanceDeposit, customer.BalanceReward)
	}

	if _, err := svc.Cancel(booking.ID, ""); err != nil {
		t.Fatalf("cancel error: %v", err)
	}

	// 两个子余额都按原扣款拆分退回
	if err := db.First(&customer, customerID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if !customer.BalanceDeposit.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected deposit restored to 40, got %s", customer.BalanceDeposit)
	}
	if !customer.BalanceReward.Decimal.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("expected reward restored to 220, got %s", customer.BalanceReward)
	}

	var refund models.Payment
	if err := db.Where("booking_id = ? AND original_id IS NOT NULL", booking.ID).
		First(&refund).Error; err != nil {
		t.Fatalf("load refund failed: %v", err)
	}
	if refund.AmountDeposit == nil || !refund.AmountDeposit.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("refund should carry the deposit split, got %+v", refund.AmountDeposit)
	}
}

func TestCreateBookingEventCapacity(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_event_capacity")
	storeID, customerID := createStoreAndCustomer(t, db)
	maxKids := 2
	left := 2
	event := models.Event{
		Title:         "测试活动",
		Date:          time.Now().AddDate(0, 0, 1),
		StoreID:       storeID,
		KidsCountMax:  &maxKids,
		KidsCountLeft: &left,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("create event failed: %v", err)
	}

	eventID := event.ID
	if _, err := svc.CreateBooking(CreateBookingInput{
		CustomerID: customerID,
		StoreID:    storeID,
		Type:       constants.BookingTypeEvent,
		KidsCount:  3,
		EventID:    &eventID,
	}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID: customerID,
		StoreID:    storeID,
		Type:       constants.BookingTypeEvent,
		KidsCount:  2,
		EventID:    &eventID,
	})
	if err != nil {
		t.Fatalf("create event booking error: %v", err)
	}

	var reloaded models.Event
	if err := db.First(&reloaded, event.ID).Error; err != nil {
		t.Fatalf("reload event failed: %v", err)
	}
	if reloaded.KidsCountLeft == nil || *reloaded.KidsCountLeft != 0 {
		t.Fatalf("expected 0 kids left, got %+v", reloaded.KidsCountLeft)
	}

	// 取消回补名额
	if _, err := svc.Cancel(booking.ID, ""); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if err := db.First(&reloaded, event.ID).Error; err != nil {
		t.Fatalf("reload event failed: %v", err)
	}
	if reloaded.KidsCountLeft == nil || *reloaded.KidsCountLeft != 2 {
		t.Fatalf("expected capacity restored to 2, got %+v", reloaded.KidsCountLeft)
	}
}

func TestSettleConsumesCardTimes(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_card_times")
	storeID, customerID := createStoreAndCustomer(t, db)
	now := time.Now()
	discount := models.NewMoneyFromDecimal(decimal.NewFromInt(0))
	card := models.Card{
		CustomerID:        customerID,
		CardTypeID:        1,
		Status:            constants.CardStatusActivated,
		Title:             "次卡",
		Slug:              "times-card",
		Type:              constants.CardTypeKindTimes,
		Times:             1,
		TimesLeft:         1,
		Start:             now.Add(-time.Hour),
		End:               now.Add(24 * time.Hour),
		MaxKids:           1,
		FreeParentsPerKid: 1,
		DiscountPrice:     &discount,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card failed: %v", err)
	}

	cardID := card.ID
	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:             customerID,
		StoreID:                storeID,
		Type:                   constants.BookingTypePlay,
		KidsCount:              1,
		AdultsCount:            1,
		CardID:                 &cardID,
		AdminAddWithoutPayment: true,
	})
	if err != nil {
		t.Fatalf("create card booking error: %v", err)
	}
	if booking.Status != constants.BookingStatusBooked {
		t.Fatalf("expected booked, got %s", booking.Status)
	}

	var reloaded models.Card
	if err := db.First(&reloaded, card.ID).Error; err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if reloaded.TimesLeft != 0 {
		t.Fatalf("expected 0 times left, got %d", reloaded.TimesLeft)
	}

	// 次数已用尽的卡再预约被拒
	if _, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:             customerID,
		StoreID:                storeID,
		Type:                   constants.BookingTypePlay,
		KidsCount:              1,
		CardID:                 &cardID,
		AdminAddWithoutPayment: true,
	}); !errors.Is(err, ErrInsufficientCardUses) {
		t.Fatalf("expected ErrInsufficientCardUses for exhausted card, got %v", err)
	}

	// 取消回补卡次数
	if _, err := svc.Cancel(booking.ID, ""); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if err := db.First(&reloaded, card.ID).Error; err != nil {
		t.Fatalf("reload card failed: %v", err)
	}
	if reloaded.TimesLeft != 1 {
		t.Fatalf("expected times restored to 1, got %d", reloaded.TimesLeft)
	}
}

func TestTimeoutCancelOnlyPending(t *testing.T) {
	svc, db := newBookingServiceTest(t, "booking_timeout_cancel")
	storeID, customerID := createStoreAndCustomer(t, db)

	booking, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:     customerID,
		StoreID:        storeID,
		Type:           constants.BookingTypePlay,
		KidsCount:      1,
		PaymentGateway: constants.PaymentGatewayCash,
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}

	// 已结清的预约不受超时取消影响
	if err := svc.TimeoutCancel(booking.ID); err != nil {
		t.Fatalf("timeout cancel error: %v", err)
	}
	current, err := svc.GetByID(booking.ID)
	if err != nil {
		t.Fatalf("reload booking failed: %v", err)
	}
	if current.Status != constants.BookingStatusBooked {
		t.Fatalf("expected booked unchanged, got %s", current.Status)
	}

	pending, err := svc.CreateBooking(CreateBookingInput{
		CustomerID: customerID,
		StoreID:    storeID,
		Type:       constants.BookingTypePlay,
		KidsCount:  1,
	})
	if err != nil {
		t.Fatalf("create pending booking error: %v", err)
	}
	if err := svc.TimeoutCancel(pending.ID); err != nil {
		t.Fatalf("timeout cancel error: %v", err)
	}
	current, err = svc.GetByID(pending.ID)
	if err != nil {
		t.Fatalf("reload booking failed: %v", err)
	}
	if current.Status != constants.BookingStatusCanceled {
		t.Fatalf("expected canceled, got %s", current.Status)
	}
}

func intPtr(v int) *int {
	return &v
}
