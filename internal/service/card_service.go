package service

import (
	"strings"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardService 会员卡服务
type CardService struct {
	cardRepo     repository.CardRepository
	cardTypeRepo repository.CardTypeRepository
	userRepo     repository.UserRepository
	paymentRepo  repository.PaymentRepository
}

// NewCardService 创建会员卡服务
func NewCardService(cardRepo repository.CardRepository, cardTypeRepo repository.CardTypeRepository, userRepo repository.UserRepository, paymentRepo repository.PaymentRepository) *CardService {
	return &CardService{
		cardRepo:     cardRepo,
		cardTypeRepo: cardTypeRepo,
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
	}
}

// EffectiveCardStatus 计算卡的实际状态。时间性过期在读取时惰性判定，
// 不信任存储中的状态：计次卡次数用尽或超出有效期终点即为过期。
func EffectiveCardStatus(card *models.Card, now time.Time) string {
	if card == nil {
		return ""
	}
	switch card.Status {
	case constants.CardStatusValid, constants.CardStatusActivated:
		if card.LimitedTimes() && card.TimesLeft <= 0 {
			return constants.CardStatusExpired
		}
		if end := card.WindowEnd(); !end.IsZero() && now.After(end) {
			return constants.CardStatusExpired
		}
	}
	return card.Status
}

// applyEffectiveStatus 把惰性过期判定写回返回值（不落库）
func applyEffectiveStatus(card *models.Card, now time.Time) *models.Card {
	if card == nil {
		return nil
	}
	card.Status = EffectiveCardStatus(card, now)
	return card
}

// PurchaseCardInput 购卡输入
type PurchaseCardInput struct {
	CustomerID             uint
	CardTypeID             uint
	Num                    string
	PaymentGateway         string
	AdminAddWithoutPayment bool
}

// PurchaseCard 按卡种开卡。生成卡种快照与待支付账单；柜台网关或
// 免支付录入立即结清，线上网关等待回调结清。
func (s *CardService) PurchaseCard(input PurchaseCardInput) (*models.Card, *models.Payment, error) {
	if input.CustomerID == 0 || input.CardTypeID == 0 {
		return nil, nil, ErrSchemaViolation
	}
	if !input.AdminAddWithoutPayment && !constants.ValidPaymentGateway(input.PaymentGateway) {
		return nil, nil, ErrSchemaViolation
	}

	customer, err := s.userRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, ErrUserNotFound
	}
	cardType, err := s.cardTypeRepo.GetByID(input.CardTypeID)
	if err != nil {
		return nil, nil, err
	}
	if cardType == nil {
		return nil, nil, ErrCardTypeNotFound
	}
	if cardType.MaxPerCustomer != nil {
		count, err := s.cardRepo.CountByCustomerAndType(input.CustomerID, input.CardTypeID)
		if err != nil {
			return nil, nil, err
		}
		if count >= int64(*cardType.MaxPerCustomer) {
			return nil, nil, ErrCardLimitExceeded
		}
	}

	card := newCardFromType(cardType, input.CustomerID, input.Num)
	var payment *models.Payment

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cardRepo := s.cardRepo.WithTx(tx)
		if err := cardRepo.Create(card); err != nil {
			return err
		}

		if input.AdminAddWithoutPayment {
			return s.settleCardTx(tx, card)
		}

		cardID := card.ID
		payment = &models.Payment{
			CustomerID: input.CustomerID,
			CardID:     &cardID,
			Amount:     card.Price,
			Title:      "购卡 " + card.Title,
			Attach:     "card",
			Gateway:    input.PaymentGateway,
		}
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return err
		}

		if input.PaymentGateway == constants.PaymentGatewayBalance {
			ok, err := s.userRepo.WithTx(tx).AdjustBalances(input.CustomerID, models.NewMoneyFromDecimal(card.Price.Neg()), models.Money{}, 0)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientBalance
			}
			deposit := card.Price
			payment.AmountDeposit = &deposit
		}

		if !constants.OnlinePaymentGateway(input.PaymentGateway) {
			if _, err := s.paymentRepo.WithTx(tx).MarkPaid(payment.ID); err != nil {
				return err
			}
			payment.Paid = true
			return s.settleCardTx(tx, card)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return card, payment, nil
}

// newCardFromType 以卡种快照生成卡实例
func newCardFromType(cardType *models.CardType, customerID uint, num string) *models.Card {
	card := &models.Card{
		CustomerID:        customerID,
		CardTypeID:        cardType.ID,
		TimesLeft:         cardType.Times,
		Num:               strings.TrimSpace(num),
		Status:            constants.CardStatusPending,
		Title:             cardType.Title,
		Slug:              cardType.Slug,
		Type:              cardType.Type,
		IsGift:            cardType.IsGift,
		Content:           cardType.Content,
		Times:             cardType.Times,
		Start:             cardType.Start,
		End:               cardType.End,
		Balance:           cardType.Balance,
		Price:             cardType.Price,
		MaxKids:           cardType.MaxKids,
		FreeParentsPerKid: cardType.FreeParentsPerKid,
		OverPrice:         cardType.OverPrice,
		DiscountPrice:     cardType.DiscountPrice,
		DiscountRate:      cardType.DiscountRate,
	}
	if card.IsGift {
		card.GiftCode = uuid.NewString()
	}
	return card
}

// settleCardTx 支付完成后的卡状态推进：礼品卡停在 valid 等待受赠人激活，
// 普通卡直接激活并开始计时。
func (s *CardService) settleCardTx(tx *gorm.DB, card *models.Card) error {
	cardRepo := s.cardRepo.WithTx(tx)
	if card.IsGift {
		ok, err := cardRepo.TransitionStatus(card.ID, []string{constants.CardStatusPending}, constants.CardStatusValid, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		card.Status = constants.CardStatusValid
		return nil
	}

	now := time.Now()
	ok, err := cardRepo.TransitionStatus(card.ID, []string{constants.CardStatusPending}, constants.CardStatusActivated, map[string]interface{}{
		"activated_at": now,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	card.Status = constants.CardStatusActivated
	card.ActivatedAt = &now
	return nil
}

// SettlePurchase 线上支付回调驱动的购卡结清
func (s *CardService) SettlePurchase(cardID uint) error {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return ErrCardNotFound
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		return s.settleCardTx(tx, card)
	})
}

// RedeemGift 礼品码核销：把礼品卡改签给受赠人并激活，有效时长自激活
// 时刻起算。每张礼品卡仅允许一次转赠。
func (s *CardService) RedeemGift(giftCode string, recipientID uint) (*models.Card, error) {
	giftCode = strings.TrimSpace(giftCode)
	if giftCode == "" || recipientID == 0 {
		return nil, ErrSchemaViolation
	}
	recipient, err := s.userRepo.GetByID(recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}
	card, err := s.cardRepo.GetByGiftCode(giftCode)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if card.GiftRedeemed {
		return nil, ErrGiftAlreadyRedeemed
	}
	if EffectiveCardStatus(card, time.Now()) != constants.CardStatusValid {
		return nil, ErrCardNotUsable
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.cardRepo.WithTx(tx).TransitionStatus(card.ID, []string{constants.CardStatusValid}, constants.CardStatusActivated, map[string]interface{}{
			"customer_id":   recipientID,
			"activated_at":  now,
			"gift_redeemed": true,
			"gift_code":     "",
		})
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
	card.CustomerID = recipientID
	card.Customer = recipient
	card.ActivatedAt = &now
	card.GiftRedeemed = true
	card.GiftCode = ""
	card.Status = constants.CardStatusActivated
	return card, nil
}

// CancelPending 作废未支付的卡
func (s *CardService) CancelPending(id uint) error {
	ok, err := s.cardRepo.TransitionStatus(id, []string{constants.CardStatusPending}, constants.CardStatusCanceled, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

// GetByID 获取卡详情（应用惰性过期判定）
func (s *CardService) GetByID(id uint) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	return applyEffectiveStatus(card, time.Now()), nil
}

// List 获取卡列表（应用惰性过期判定）
func (s *CardService) List(filter repository.CardListFilter) ([]models.Card, int64, error) {
	cards, total, err := s.cardRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for i := range cards {
		cards[i].Status = EffectiveCardStatus(&cards[i], now)
	}
	return cards, total, nil
}

// UpdateFields 管理性字段修正（卡号、备注类字段，不触碰状态机）
func (s *CardService) UpdateFields(id uint, updates map[string]interface{}) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	delete(updates, "status")
	delete(updates, "times_left")
	if len(updates) > 0 {
		if err := s.cardRepo.UpdateFields(id, updates); err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// ExpireSweep 批量把惰性判定为过期的卡落库为 expired。读取路径不依赖
// 该任务，仅用于报表口径一致。
func (s *CardService) ExpireSweep(batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	cards, err := s.cardRepo.ListExpiredCandidates(batchSize)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	swept := 0
	for i := range cards {
		card := &cards[i]
		if EffectiveCardStatus(card, now) != constants.CardStatusExpired {
			continue
		}
		ok, err := s.cardRepo.TransitionStatus(card.ID, []string{constants.CardStatusValid, constants.CardStatusActivated}, constants.CardStatusExpired, nil)
		if err != nil {
			logger.Warnw("标记过期卡失败", "card_id", card.ID, "error", err)
			continue
		}
		if ok {
			swept++
		}
	}
	return swept, nil
}
