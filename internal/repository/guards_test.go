package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openRepoTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Card{}, &models.Event{}, &models.Gift{}, &models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestConsumeTimesGuard(t *testing.T) {
	db := openRepoTestDB(t, "repo_consume_times")
	repo := NewCardRepository(db)
	card := models.Card{
		CustomerID: 1,
		CardTypeID: 1,
		Status:     constants.CardStatusActivated,
		Times:      2,
		TimesLeft:  1,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card failed: %v", err)
	}

	ok, err := repo.ConsumeTimes(card.ID, 1)
	if err != nil || !ok {
		t.Fatalf("first consume: ok=%v err=%v", ok, err)
	}
	ok, err = repo.ConsumeTimes(card.ID, 1)
	if err != nil {
		t.Fatalf("second consume error: %v", err)
	}
	if ok {
		t.Fatalf("consume must fail when times_left is 0")
	}

	if err := repo.RestoreTimes(card.ID, 1); err != nil {
		t.Fatalf("restore error: %v", err)
	}
	var stored models.Card
	if err := db.First(&stored, card.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.TimesLeft != 1 {
		t.Fatalf("expected times_left 1 after restore, got %d", stored.TimesLeft)
	}
}

func TestDecrementKidsLeftGuard(t *testing.T) {
	db := openRepoTestDB(t, "repo_event_kids")
	repo := NewEventRepository(db)
	left := 2
	capped := models.Event{Title: "限额活动", KidsCountLeft: &left}
	uncapped := models.Event{Title: "不限额活动"}
	if err := db.Create(&capped).Error; err != nil {
		t.Fatalf("create capped failed: %v", err)
	}
	if err := db.Create(&uncapped).Error; err != nil {
		t.Fatalf("create uncapped failed: %v", err)
	}

	ok, err := repo.DecrementKidsLeft(capped.ID, 2)
	if err != nil || !ok {
		t.Fatalf("decrement within quota: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecrementKidsLeft(capped.ID, 1)
	if err != nil {
		t.Fatalf("decrement error: %v", err)
	}
	if ok {
		t.Fatalf("decrement must fail when quota exhausted")
	}

	// 不限额活动恒成功且保持 NULL
	for i := 0; i < 3; i++ {
		ok, err = repo.DecrementKidsLeft(uncapped.ID, 1)
		if err != nil || !ok {
			t.Fatalf("uncapped decrement: ok=%v err=%v", ok, err)
		}
	}
	var stored models.Event
	if err := db.First(&stored, uncapped.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.KidsCountLeft != nil {
		t.Fatalf("uncapped quota must stay NULL, got %v", *stored.KidsCountLeft)
	}

	// 回补只作用于限额活动
	if err := repo.IncrementKidsLeft(capped.ID, 2); err != nil {
		t.Fatalf("increment error: %v", err)
	}
	if err := repo.IncrementKidsLeft(uncapped.ID, 2); err != nil {
		t.Fatalf("uncapped increment error: %v", err)
	}
	stored = models.Event{}
	if err := db.First(&stored, capped.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.KidsCountLeft == nil || *stored.KidsCountLeft != 2 {
		t.Fatalf("expected quota restored to 2, got %v", stored.KidsCountLeft)
	}
}

func TestDecrementQuantityGuard(t *testing.T) {
	db := openRepoTestDB(t, "repo_gift_quantity")
	repo := NewGiftRepository(db)
	gift := models.Gift{Title: "保温杯", Quantity: 3, PriceInPoints: 500}
	if err := db.Create(&gift).Error; err != nil {
		t.Fatalf("create gift failed: %v", err)
	}

	ok, err := repo.DecrementQuantity(gift.ID, 2)
	if err != nil || !ok {
		t.Fatalf("decrement: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecrementQuantity(gift.ID, 2)
	if err != nil {
		t.Fatalf("decrement error: %v", err)
	}
	if ok {
		t.Fatalf("decrement must fail when stock is short")
	}

	if err := repo.IncrementQuantity(gift.ID, 2); err != nil {
		t.Fatalf("increment error: %v", err)
	}
	var stored models.Gift
	if err := db.First(&stored, gift.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Quantity != 3 {
		t.Fatalf("expected stock restored to 3, got %d", stored.Quantity)
	}
}

func TestAdjustBalancesGuards(t *testing.T) {
	db := openRepoTestDB(t, "repo_balances")
	repo := NewUserRepository(db)
	user := models.User{
		Role:           constants.UserRoleCustomer,
		Name:           "余额客户",
		BalanceDeposit: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		BalanceReward:  models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		Points:         10,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	cases := []struct {
		name    string
		deposit int64
		reward  int64
		points  int
		want    bool
	}{
		{"within all balances", -60, -20, -5, true},
		{"deposit overdraw", -50, 0, 0, false},
		{"reward overdraw", 0, -20, 0, false},
		{"points overdraw", 0, 0, -10, false},
		{"top up", 20, 10, 5, true},
	}
	for _, c := range cases {
		ok, err := repo.AdjustBalances(user.ID,
			models.NewMoneyFromDecimal(decimal.NewFromInt(c.deposit)),
			models.NewMoneyFromDecimal(decimal.NewFromInt(c.reward)),
			c.points,
		)
		if err != nil {
			t.Fatalf("%s: error %v", c.name, err)
		}
		if ok != c.want {
			t.Fatalf("%s: want ok=%v got %v", c.name, c.want, ok)
		}
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !stored.BalanceDeposit.Decimal.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected deposit 60, got %s", stored.BalanceDeposit)
	}
	if !stored.BalanceReward.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected reward 20, got %s", stored.BalanceReward)
	}
	if stored.Points != 10 {
		t.Fatalf("expected points 10, got %d", stored.Points)
	}
}

func TestMarkPaidOnlyOnce(t *testing.T) {
	db := openRepoTestDB(t, "repo_mark_paid")
	repo := NewPaymentRepository(db)
	payment := models.Payment{
		CustomerID: 1,
		Amount:     models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Gateway:    constants.PaymentGatewayWechat,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	ok, err := repo.MarkPaid(payment.ID)
	if err != nil || !ok {
		t.Fatalf("first mark: ok=%v err=%v", ok, err)
	}
	ok, err = repo.MarkPaid(payment.ID)
	if err != nil {
		t.Fatalf("second mark error: %v", err)
	}
	if ok {
		t.Fatalf("replayed mark must be a no-op")
	}

	var stored models.Payment
	if err := db.First(&stored, payment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !stored.Paid || stored.PaidAt == nil {
		t.Fatalf("expected paid with timestamp, got %+v", stored)
	}
}

func TestBookingTransitionStatusGuard(t *testing.T) {
	db := openRepoTestDB(t, "repo_booking_transition")
	if err := db.AutoMigrate(&models.Booking{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	repo := NewBookingRepository(db)
	booking := models.Booking{
		CustomerID: 1,
		StoreID:    1,
		Type:       constants.BookingTypePlay,
		Status:     constants.BookingStatusPending,
		Date:       "2026-09-01",
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("create booking failed: %v", err)
	}

	ok, err := repo.TransitionStatus(booking.ID, []string{constants.BookingStatusPending}, constants.BookingStatusBooked, nil)
	if err != nil || !ok {
		t.Fatalf("pending->booked: ok=%v err=%v", ok, err)
	}
	// 旧状态不匹配时不落库
	ok, err = repo.TransitionStatus(booking.ID, []string{constants.BookingStatusPending}, constants.BookingStatusCanceled, nil)
	if err != nil {
		t.Fatalf("transition error: %v", err)
	}
	if ok {
		t.Fatalf("stale transition must not apply")
	}
	var stored models.Booking
	if err := db.First(&stored, booking.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Status != constants.BookingStatusBooked {
		t.Fatalf("expected booked, got %s", stored.Status)
	}
}

func TestBuildOrderClauseWhitelist(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"createdAt", "created_at asc"},
		{"-createdAt", "created_at desc"},
		{"-paidAt", "paid_at desc"},
		{"password", ""},
		{"-drop table users", ""},
	}
	for _, c := range cases {
		if got := buildOrderClause(c.in); got != c.want {
			t.Fatalf("buildOrderClause(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplyListQueryDefaultLimit(t *testing.T) {
	db := openRepoTestDB(t, "repo_list_limit")
	repo := NewUserRepository(db)
	for i := 0; i < 25; i++ {
		user := models.User{Role: constants.UserRoleCustomer, Name: fmt.Sprintf("客户%02d", i)}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("create user failed: %v", err)
		}
	}

	users, total, err := repo.List(UserListFilter{})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if len(users) != defaultListLimit {
		t.Fatalf("expected default page of %d, got %d", defaultListLimit, len(users))
	}
	// 默认按 id 倒序
	if users[0].Name != "客户24" {
		t.Fatalf("expected newest first, got %s", users[0].Name)
	}

	all, _, err := repo.List(UserListFilter{ListQuery: ListQuery{NoLimit: true}})
	if err != nil {
		t.Fatalf("list all error: %v", err)
	}
	if len(all) != 25 {
		t.Fatalf("expected all rows, got %d", len(all))
	}
}
