package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/queue"
	"github.com/funfair-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allowedBookingTransitions 预约状态机。不在表内的边一律拒绝。
var allowedBookingTransitions = map[string]map[string]bool{
	constants.BookingStatusPending: {
		constants.BookingStatusBooked:   true,
		constants.BookingStatusCanceled: true,
	},
	constants.BookingStatusBooked: {
		constants.BookingStatusInService:     true,
		constants.BookingStatusPendingRefund: true,
		constants.BookingStatusCanceled:      true,
	},
	constants.BookingStatusInService: {
		constants.BookingStatusPendingRefund: true,
		constants.BookingStatusFinished:      true,
	},
	constants.BookingStatusPendingRefund: {
		constants.BookingStatusFinished: true,
	},
}

// AllowedBookingTransition 判断预约状态机是否允许该迁移
func AllowedBookingTransition(from, to string) bool {
	return allowedBookingTransitions[from][to]
}

// BookingService 预约服务
type BookingService struct {
	bookingRepo    repository.BookingRepository
	paymentRepo    repository.PaymentRepository
	cardRepo       repository.CardRepository
	couponRepo     repository.CouponRepository
	eventRepo      repository.EventRepository
	giftRepo       repository.GiftRepository
	userRepo       repository.UserRepository
	storeRepo      repository.StoreRepository
	pricingService *PricingService
	queueClient    *queue.Client
	expireMinutes  int
}

// NewBookingService 创建预约服务
func NewBookingService(bookingRepo repository.BookingRepository, paymentRepo repository.PaymentRepository, cardRepo repository.CardRepository, couponRepo repository.CouponRepository, eventRepo repository.EventRepository, giftRepo repository.GiftRepository, userRepo repository.UserRepository, storeRepo repository.StoreRepository, pricingService *PricingService, queueClient *queue.Client, expireMinutes int) *BookingService {
	return &BookingService{
		bookingRepo:    bookingRepo,
		paymentRepo:    paymentRepo,
		cardRepo:       cardRepo,
		couponRepo:     couponRepo,
		eventRepo:      eventRepo,
		giftRepo:       giftRepo,
		userRepo:       userRepo,
		storeRepo:      storeRepo,
		pricingService: pricingService,
		queueClient:    queueClient,
		expireMinutes:  expireMinutes,
	}
}

// CreateBookingInput 创建预约输入
type CreateBookingInput struct {
	CustomerID             uint
	StoreID                uint
	Type                   string
	Date                   string
	AdultsCount            int
	KidsCount              int
	SocksCount             int
	Quantity               int
	CardID                 *uint
	CouponID               *uint
	EventID                *uint
	GiftID                 *uint
	Remarks                string
	PaymentGateway         string
	UseBalance             bool
	AdminAddWithoutPayment bool
}

// CreateBooking 创建预约。计价后以 pending 入库；活动名额与礼品库存
// 在同一事务内条件扣减。若指定柜台网关或免支付录入则立即结算。
func (s *BookingService) CreateBooking(input CreateBookingInput) (*models.Booking, error) {
	if input.CustomerID == 0 || input.StoreID == 0 {
		return nil, ErrSchemaViolation
	}
	if !constants.ValidBookingType(input.Type) {
		return nil, ErrSchemaViolation
	}
	if input.PaymentGateway != "" && !constants.ValidPaymentGateway(input.PaymentGateway) {
		return nil, ErrSchemaViolation
	}
	if input.Date == "" {
		input.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, ErrSchemaViolation
	}

	customer, err := s.userRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrUserNotFound
	}
	store, err := s.storeRepo.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	refs, err := s.loadReferences(input)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricingService.Quote(QuoteInput{
		Type:        input.Type,
		AdultsCount: input.AdultsCount,
		KidsCount:   input.KidsCount,
		SocksCount:  input.SocksCount,
		Quantity:    input.Quantity,
		Card:        refs.card,
		Coupon:      refs.coupon,
		Event:       refs.event,
		Gift:        refs.gift,
	})
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingNo:     newBookingNo(),
		CustomerID:    input.CustomerID,
		StoreID:       input.StoreID,
		Type:          input.Type,
		Date:          input.Date,
		AdultsCount:   input.AdultsCount,
		KidsCount:     input.KidsCount,
		SocksCount:    input.SocksCount,
		Status:        constants.BookingStatusPending,
		Price:         quote.Price,
		PriceInPoints: quote.PriceInPoints,
		CardID:        input.CardID,
		CouponID:      input.CouponID,
		EventID:       input.EventID,
		GiftID:        input.GiftID,
		Remarks:       strings.TrimSpace(input.Remarks),
	}
	if input.Type == constants.BookingTypeGift {
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		booking.Quantity = &quantity
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if refs.event != nil {
			ok, err := s.eventRepo.WithTx(tx).DecrementKidsLeft(refs.event.ID, input.KidsCount)
			if err != nil {
				return err
			}
			if !ok {
				return ErrCapacityExceeded
			}
		}
		if refs.gift != nil {
			quantity := 1
			if booking.Quantity != nil {
				quantity = *booking.Quantity
			}
			ok, err := s.giftRepo.WithTx(tx).DecrementQuantity(refs.gift.ID, quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrCapacityExceeded
			}
		}
		if err := s.bookingRepo.WithTx(tx).Create(booking); err != nil {
			return err
		}

		if input.AdminAddWithoutPayment {
			return s.settleTx(tx, booking)
		}
		if input.PaymentGateway != "" {
			_, err := s.addPaymentTx(tx, booking, AddPaymentInput{
				Gateway:        input.PaymentGateway,
				Amount:         booking.Price,
				AmountInPoints: booking.PriceInPoints,
				UseBalance:     input.UseBalance,
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if booking.Status == constants.BookingStatusPending && s.queueClient != nil {
		delay := time.Duration(s.expireMinutes) * time.Minute
		if err := s.queueClient.EnqueueBookingTimeoutCancel(queue.BookingTimeoutCancelPayload{BookingID: booking.ID}, delay); err != nil {
			logger.Warnw("投递预约超时取消任务失败", "booking_id", booking.ID, "error", err)
		}
	}
	return s.GetByID(booking.ID)
}

type bookingReferences struct {
	card   *models.Card
	coupon *models.Coupon
	event  *models.Event
	gift   *models.Gift
}

// loadReferences 加载并校验预约引用的卡/券/活动/礼品
func (s *BookingService) loadReferences(input CreateBookingInput) (*bookingReferences, error) {
	refs := &bookingReferences{}
	now := time.Now()

	if input.CardID != nil {
		card, err := s.cardRepo.GetByID(*input.CardID)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, ErrCardNotFound
		}
		if card.CustomerID != input.CustomerID {
			return nil, ErrCardNotUsable
		}
		if card.LimitedTimes() && card.TimesLeft <= 0 {
			return nil, ErrInsufficientCardUses
		}
		status := EffectiveCardStatus(card, now)
		if status == constants.CardStatusExpired {
			return nil, ErrExpiredPromotion
		}
		if status != constants.CardStatusActivated {
			return nil, ErrCardNotUsable
		}
		refs.card = card
	}
	if input.CouponID != nil {
		coupon, err := s.couponRepo.GetByID(*input.CouponID)
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			return nil, ErrCouponNotFound
		}
		if !coupon.Redeemable(now) {
			return nil, ErrExpiredPromotion
		}
		refs.coupon = coupon
	}
	if input.Type == constants.BookingTypeEvent {
		if input.EventID == nil {
			return nil, ErrSchemaViolation
		}
		event, err := s.eventRepo.GetByID(*input.EventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, ErrEventNotFound
		}
		refs.event = event
	}
	if input.Type == constants.BookingTypeGift {
		if input.GiftID == nil {
			return nil, ErrSchemaViolation
		}
		gift, err := s.giftRepo.GetByID(*input.GiftID)
		if err != nil {
			return nil, err
		}
		if gift == nil {
			return nil, ErrGiftNotFound
		}
		refs.gift = gift
	}
	return refs, nil
}

// AddPaymentInput 收款输入
type AddPaymentInput struct {
	Gateway        string
	Amount         *models.Money
	AmountInPoints *int
	UseBalance     bool
	ForceDeposit   *models.Money
}

// AddPayment 对待支付预约收款。柜台网关立即记账，累计金额与应收完全
// 相等时预约转为 booked；溢收直接拒绝。
func (s *BookingService) AddPayment(bookingID uint, input AddPaymentInput) (*models.Payment, error) {
	if !constants.ValidPaymentGateway(input.Gateway) {
		return nil, ErrSchemaViolation
	}
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status != constants.BookingStatusPending {
		return nil, ErrBookingNotPayable
	}

	var payment *models.Payment
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		payment, txErr = s.addPaymentTx(tx, booking, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// addPaymentTx 在事务内创建收款记录并尝试结算
func (s *BookingService) addPaymentTx(tx *gorm.DB, booking *models.Booking, input AddPaymentInput) (*models.Payment, error) {
	paidAmount, paidPoints, err := s.settledTotalsTx(tx, booking.ID)
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	if input.Amount != nil {
		amount = input.Amount.Decimal
	}
	points := 0
	if input.AmountInPoints != nil {
		points = *input.AmountInPoints
	}
	if amount.IsNegative() || points < 0 {
		return nil, ErrSchemaViolation
	}

	priceDue := decimal.Zero
	if booking.Price != nil {
		priceDue = booking.Price.Decimal
	}
	pointsDue := 0
	if booking.PriceInPoints != nil {
		pointsDue = *booking.PriceInPoints
	}
	if paidAmount.Add(amount).GreaterThan(priceDue) || paidPoints+points > pointsDue {
		return nil, ErrPriceMismatch
	}

	bookingID := booking.ID
	payment := &models.Payment{
		CustomerID: booking.CustomerID,
		BookingID:  &bookingID,
		Amount:     models.NewMoneyFromDecimal(amount),
		Title:      "预约 " + booking.BookingNo,
		Attach:     "booking",
		Gateway:    input.Gateway,
	}
	if points > 0 {
		payment.AmountInPoints = &points
	}

	switch input.Gateway {
	case constants.PaymentGatewayBalance:
		forceDeposit := models.Money{}
		if input.ForceDeposit != nil {
			forceDeposit = *input.ForceDeposit
			payment.AmountForceDeposit = input.ForceDeposit
		}
		deposit, err := s.debitBalanceTx(tx, booking.CustomerID, models.NewMoneyFromDecimal(amount), forceDeposit)
		if err != nil {
			return nil, err
		}
		payment.AmountDeposit = &deposit
	case constants.PaymentGatewayPoints:
		if points > 0 {
			ok, err := s.userRepo.WithTx(tx).AdjustBalances(booking.CustomerID, models.Money{}, models.Money{}, -points)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrInsufficientPoints
			}
		}
	}

	if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
		return nil, err
	}
	if !constants.OnlinePaymentGateway(input.Gateway) {
		if _, err := s.paymentRepo.WithTx(tx).MarkPaid(payment.ID); err != nil {
			return nil, err
		}
		payment.Paid = true

		if paidAmount.Add(amount).Equal(priceDue) && paidPoints+points == pointsDue {
			if err := s.settleTx(tx, booking); err != nil {
				return nil, err
			}
		}
	}
	return payment, nil
}

// debitBalanceTx 从储值与赠送余额扣款。优先扣赠送余额，ForceDeposit
// 指定必须从储值扣除的部分；返回实际储值扣除额。
func (s *BookingService) debitBalanceTx(tx *gorm.DB, customerID uint, amount, forceDeposit models.Money) (models.Money, error) {
	customer, err := s.userRepo.WithTx(tx).GetByID(customerID)
	if err != nil {
		return models.Money{}, err
	}
	if customer == nil {
		return models.Money{}, ErrUserNotFound
	}

	deposit := forceDeposit.Decimal
	remaining := amount.Decimal.Sub(deposit)
	if remaining.IsNegative() {
		return models.Money{}, ErrSchemaViolation
	}
	rewardPart := decimal.Min(remaining, customer.BalanceReward.Decimal)
	deposit = deposit.Add(remaining.Sub(rewardPart))

	ok, err := s.userRepo.WithTx(tx).AdjustBalances(customerID,
		models.NewMoneyFromDecimal(deposit.Neg()),
		models.NewMoneyFromDecimal(rewardPart.Neg()), 0)
	if err != nil {
		return models.Money{}, err
	}
	if !ok {
		return models.Money{}, ErrInsufficientBalance
	}
	return models.NewMoneyFromDecimal(deposit), nil
}

// settledTotalsTx 计算已结清金额（非退款已支付记录之和，退款为负值自动抵销）
func (s *BookingService) settledTotalsTx(tx *gorm.DB, bookingID uint) (decimal.Decimal, int, error) {
	payments, err := s.paymentRepo.WithTx(tx).ListByBooking(bookingID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	points := 0
	for i := range payments {
		p := &payments[i]
		if !p.Paid {
			continue
		}
		total = total.Add(p.Amount.Decimal)
		if p.AmountInPoints != nil {
			if p.Refund() {
				points -= *p.AmountInPoints
			} else {
				points += *p.AmountInPoints
			}
		}
	}
	return total, points, nil
}

// settleTx 结算完成：pending→booked，并在同一事务内消耗会员卡次数。
func (s *BookingService) settleTx(tx *gorm.DB, booking *models.Booking) error {
	if booking.CardID != nil {
		card, err := s.cardRepo.WithTx(tx).GetByID(*booking.CardID)
		if err != nil {
			return err
		}
		if card == nil {
			return ErrCardNotFound
		}
		if card.LimitedTimes() {
			ok, err := s.cardRepo.WithTx(tx).ConsumeTimes(card.ID, 1)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientCardUses
			}
		}
	}
	ok, err := s.bookingRepo.WithTx(tx).TransitionStatus(booking.ID,
		[]string{constants.BookingStatusPending}, constants.BookingStatusBooked, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	booking.Status = constants.BookingStatusBooked
	return nil
}

// OnPaymentSettled 线上回调结清后推进预约：累计金额精确匹配才转 booked
func (s *BookingService) OnPaymentSettled(bookingID uint) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if booking.Status != constants.BookingStatusPending {
		return nil
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		paidAmount, paidPoints, err := s.settledTotalsTx(tx, booking.ID)
		if err != nil {
			return err
		}
		priceDue := decimal.Zero
		if booking.Price != nil {
			priceDue = booking.Price.Decimal
		}
		pointsDue := 0
		if booking.PriceInPoints != nil {
			pointsDue = *booking.PriceInPoints
		}
		if !paidAmount.Equal(priceDue) || paidPoints != pointsDue {
			return nil
		}
		return s.settleTx(tx, booking)
	})
}

// CheckIn 到店核销：booked→in_service，记录到店时间
func (s *BookingService) CheckIn(id uint) (*models.Booking, error) {
	ok, err := s.bookingRepo.TransitionStatus(id,
		[]string{constants.BookingStatusBooked}, constants.BookingStatusInService,
		map[string]interface{}{"check_in_at": time.Now()})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	return s.GetByID(id)
}

// UpdateCountersInput 人数与耗材计数修正输入
type UpdateCountersInput struct {
	AdultsCount  *int
	KidsCount    *int
	SocksCount   *int
	BandsPrinted *int
}

// UpdateCounters 服务中人数/耗材修正
func (s *BookingService) UpdateCounters(id uint, input UpdateCountersInput) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status != constants.BookingStatusInService {
		return nil, ErrInvalidTransition
	}
	updates := map[string]interface{}{}
	if input.AdultsCount != nil {
		if *input.AdultsCount < 0 {
			return nil, ErrSchemaViolation
		}
		updates["adults_count"] = *input.AdultsCount
	}
	if input.KidsCount != nil {
		if *input.KidsCount < 0 {
			return nil, ErrSchemaViolation
		}
		updates["kids_count"] = *input.KidsCount
	}
	if input.SocksCount != nil {
		if *input.SocksCount < 0 {
			return nil, ErrSchemaViolation
		}
		updates["socks_count"] = *input.SocksCount
	}
	if input.BandsPrinted != nil {
		if *input.BandsPrinted < 0 {
			return nil, ErrSchemaViolation
		}
		updates["bands_printed"] = *input.BandsPrinted
	}
	if len(updates) > 0 {
		if err := s.bookingRepo.UpdateFields(id, updates); err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Cancel 取消预约（pending/booked）。已结清的收款在同一事务内生成冲正
// 退款；已消耗的卡次数与活动名额、礼品库存一并回补。
func (s *BookingService) Cancel(id uint, remark string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !AllowedBookingTransition(booking.Status, constants.BookingStatusCanceled) {
		return nil, ErrInvalidTransition
	}
	settled := booking.Status == constants.BookingStatusBooked

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.refundSettledPaymentsTx(tx, booking, remark); err != nil {
			return err
		}
		if settled && booking.CardID != nil {
			card, err := s.cardRepo.WithTx(tx).GetByID(*booking.CardID)
			if err != nil {
				return err
			}
			if card != nil && card.LimitedTimes() {
				if err := s.cardRepo.WithTx(tx).RestoreTimes(card.ID, 1); err != nil {
					return err
				}
			}
		}
		if booking.EventID != nil {
			if err := s.eventRepo.WithTx(tx).IncrementKidsLeft(*booking.EventID, booking.KidsCount); err != nil {
				return err
			}
		}
		if booking.GiftID != nil {
			quantity := 1
			if booking.Quantity != nil {
				quantity = *booking.Quantity
			}
			if err := s.giftRepo.WithTx(tx).IncrementQuantity(*booking.GiftID, quantity); err != nil {
				return err
			}
		}
		ok, err := s.bookingRepo.WithTx(tx).TransitionStatus(booking.ID,
			[]string{constants.BookingStatusPending, constants.BookingStatusBooked},
			constants.BookingStatusCanceled, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// RequestRefund 申请退款：booked/in_service→pending_refund
func (s *BookingService) RequestRefund(id uint) (*models.Booking, error) {
	ok, err := s.bookingRepo.TransitionStatus(id,
		[]string{constants.BookingStatusBooked, constants.BookingStatusInService},
		constants.BookingStatusPendingRefund, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	return s.GetByID(id)
}

// Finish 完成服务。pending_refund 进入 finished 前先把未冲正的收款
// 全部退款对账。
func (s *BookingService) Finish(id uint, remark string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !AllowedBookingTransition(booking.Status, constants.BookingStatusFinished) {
		return nil, ErrInvalidTransition
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if booking.Status == constants.BookingStatusPendingRefund {
			if err := s.refundSettledPaymentsTx(tx, booking, remark); err != nil {
				return err
			}
		}
		ok, err := s.bookingRepo.WithTx(tx).TransitionStatus(booking.ID,
			[]string{constants.BookingStatusInService, constants.BookingStatusPendingRefund},
			constants.BookingStatusFinished, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// refundSettledPaymentsTx 对预约下所有已支付且未冲正的收款创建退款
func (s *BookingService) refundSettledPaymentsTx(tx *gorm.DB, booking *models.Booking, remark string) error {
	payments, err := s.paymentRepo.WithTx(tx).ListByBooking(booking.ID)
	if err != nil {
		return err
	}
	refunded := map[uint]bool{}
	for i := range payments {
		if payments[i].OriginalID != nil {
			refunded[*payments[i].OriginalID] = true
		}
	}
	now := time.Now()
	for i := range payments {
		p := &payments[i]
		if !p.Paid || p.Refund() || refunded[p.ID] {
			continue
		}
		title := "退款 " + p.Title
		if remark != "" {
			title = title + "（" + remark + "）"
		}
		originalID := p.ID
		bookingID := booking.ID
		refund := &models.Payment{
			CustomerID: p.CustomerID,
			BookingID:  &bookingID,
			Amount:     models.NewMoneyFromDecimal(p.Amount.Neg()),
			Paid:       true,
			Title:      title,
			Attach:     p.Attach,
			Gateway:    p.Gateway,
			OriginalID: &originalID,
			PaidAt:     &now,
		}
		switch p.Gateway {
		case constants.PaymentGatewayBalance:
			// 储值与赠送两个子余额都要回补，缺一则钱包对不上账
			deposit, reward := p.BalanceSplit()
			ok, err := s.userRepo.WithTx(tx).AdjustBalances(p.CustomerID,
				models.NewMoneyFromDecimal(deposit),
				models.NewMoneyFromDecimal(reward), 0)
			if err != nil {
				return err
			}
			if !ok {
				return ErrUserNotFound
			}
			depositMoney := models.NewMoneyFromDecimal(deposit)
			refund.AmountDeposit = &depositMoney
		case constants.PaymentGatewayPoints:
			if p.AmountInPoints != nil && *p.AmountInPoints > 0 {
				ok, err := s.userRepo.WithTx(tx).AdjustBalances(p.CustomerID, models.Money{}, models.Money{}, *p.AmountInPoints)
				if err != nil {
					return err
				}
				if !ok {
					return ErrUserNotFound
				}
				refund.AmountInPoints = p.AmountInPoints
			}
		}
		if err := s.paymentRepo.WithTx(tx).Create(refund); err != nil {
			return err
		}
	}
	return nil
}

// TimeoutCancel 支付超时取消，仅对仍处 pending 的预约生效
func (s *BookingService) TimeoutCancel(id uint) error {
	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return err
	}
	if booking == nil || booking.Status != constants.BookingStatusPending {
		return nil
	}
	_, err = s.Cancel(id, "支付超时")
	return err
}

// UpdateRemarks 修改备注。finished 状态仅允许改备注，其余字段不动。
func (s *BookingService) UpdateRemarks(id uint, remarks string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if err := s.bookingRepo.UpdateFields(id, map[string]interface{}{"remarks": strings.TrimSpace(remarks)}); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// GetByID 获取预约详情
func (s *BookingService) GetByID(id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// List 获取预约列表
func (s *BookingService) List(filter repository.BookingListFilter) ([]models.Booking, int64, error) {
	for _, status := range filter.Statuses {
		if !constants.ValidBookingStatus(status) {
			return nil, 0, ErrSchemaViolation
		}
	}
	if filter.Type != "" && !constants.ValidBookingType(filter.Type) {
		return nil, 0, ErrSchemaViolation
	}
	return s.bookingRepo.List(filter)
}

// newBookingNo 生成预约单号（日期 + 随机数字）
func newBookingNo() string {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("B%s%06d", time.Now().Format("20060102150405"), suffix)
}
