package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/payment/alipay"
	"github.com/funfair-next/internal/payment/wechatpay"
	"github.com/funfair-next/internal/repository"

	"gorm.io/gorm"
)

// PaymentService 支付服务。柜台网关直接记账，线上网关经提供方下单并由
// 异步回调驱动结清。
type PaymentService struct {
	paymentRepo    repository.PaymentRepository
	bookingService *BookingService
	cardService    *CardService
	userRepo       repository.UserRepository
	wechatProvider *wechatpay.Provider
	alipayProvider *alipay.Provider
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, bookingService *BookingService, cardService *CardService, userRepo repository.UserRepository, wechatProvider *wechatpay.Provider, alipayProvider *alipay.Provider) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		bookingService: bookingService,
		cardService:    cardService,
		userRepo:       userRepo,
		wechatProvider: wechatProvider,
		alipayProvider: alipayProvider,
	}
}

// OnlinePaymentResult 线上下单结果
type OnlinePaymentResult struct {
	Payment *models.Payment `json:"payment"`
	PayURL  string          `json:"payUrl,omitempty"`
	QRCode  string          `json:"qrCode,omitempty"`
}

// CreateOnline 对待支付账单发起线上收款。scan 网关走微信 Native 扫码。
func (s *PaymentService) CreateOnline(ctx context.Context, paymentID uint) (*OnlinePaymentResult, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Paid {
		return nil, ErrPaymentAlreadyCompleted
	}

	paymentNo := paymentOutTradeNo(payment.ID)
	result := &OnlinePaymentResult{Payment: payment}
	switch payment.Gateway {
	case constants.PaymentGatewayWechat, constants.PaymentGatewayScan:
		if s.wechatProvider == nil {
			return nil, ErrPaymentGatewayUnready
		}
		created, err := s.wechatProvider.CreateNative(ctx, wechatpay.CreateInput{
			PaymentNo:   paymentNo,
			PaymentID:   payment.ID,
			Amount:      payment.Amount.String(),
			Description: payment.Title,
		})
		if err != nil {
			return nil, err
		}
		result.QRCode = created.QRCode
		if err := s.storeGatewayData(payment.ID, created.Raw); err != nil {
			return nil, err
		}
	case constants.PaymentGatewayAlipay:
		if s.alipayProvider == nil {
			return nil, ErrPaymentGatewayUnready
		}
		created, err := s.alipayProvider.CreatePagePay(alipay.CreateInput{
			PaymentNo: paymentNo,
			PaymentID: payment.ID,
			Amount:    payment.Amount.String(),
			Subject:   payment.Title,
		})
		if err != nil {
			return nil, err
		}
		result.PayURL = created.PayURL
		if err := s.storeGatewayData(payment.ID, created.Raw); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedGateway
	}
	return result, nil
}

// HandleWechatNotify 处理微信支付异步回调
func (s *PaymentService) HandleWechatNotify(ctx context.Context, headers map[string]string, body []byte) error {
	if s.wechatProvider == nil {
		return ErrPaymentGatewayUnready
	}
	result, err := s.wechatProvider.VerifyNotify(ctx, headers, body)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		logger.Infow("微信回调非成功状态，忽略", "payment_no", result.PaymentNo, "event", result.EventType)
		return nil
	}
	paymentID := result.PaymentID
	if paymentID == 0 {
		paymentID = parseOutTradeNo(result.PaymentNo)
	}
	return s.settleOnline(paymentID, result.Raw)
}

// HandleAlipayNotify 处理支付宝异步回调
func (s *PaymentService) HandleAlipayNotify(form url.Values) error {
	if s.alipayProvider == nil {
		return ErrPaymentGatewayUnready
	}
	result, err := s.alipayProvider.VerifyNotify(form)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		logger.Infow("支付宝回调非成功状态，忽略", "payment_no", result.PaymentNo)
		return nil
	}
	paymentID := result.PaymentID
	if paymentID == 0 {
		paymentID = parseOutTradeNo(result.PaymentNo)
	}
	raw := make(map[string]interface{}, len(result.Raw))
	for key, value := range result.Raw {
		raw[key] = value
	}
	return s.settleOnline(paymentID, raw)
}

// settleOnline 回调结清：标记支付并推进关联预约/会员卡。回调重放由
// MarkPaid 的条件更新吸收，只生效一次。
func (s *PaymentService) settleOnline(paymentID uint, gatewayData map[string]interface{}) error {
	if paymentID == 0 {
		return ErrPaymentNotFound
	}
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}

	marked, err := s.paymentRepo.MarkPaid(payment.ID)
	if err != nil {
		return err
	}
	if !marked {
		logger.Infow("账单已结清，忽略重复回调", "payment_id", payment.ID)
		return nil
	}
	if len(gatewayData) > 0 {
		if err := s.storeGatewayData(payment.ID, gatewayData); err != nil {
			logger.Warnw("保存网关回执失败", "payment_id", payment.ID, "error", err)
		}
	}

	if payment.BookingID != nil {
		return s.bookingService.OnPaymentSettled(*payment.BookingID)
	}
	if payment.CardID != nil {
		return s.cardService.SettlePurchase(*payment.CardID)
	}
	return nil
}

// Refund 对已支付账单创建冲正退款。余额网关按原扣款拆分退回储值与
// 赠送余额，积分网关退回积分，其余网关仅记账。
func (s *PaymentService) Refund(paymentID uint, remark string) (*models.Payment, error) {
	original, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, ErrPaymentNotFound
	}
	if !original.Paid || original.Refund() {
		return nil, ErrSchemaViolation
	}

	var refund *models.Payment
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		refund, txErr = s.refundTx(tx, original, remark)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

// refundTx 在事务内创建退款记录并执行余额/积分回补
func (s *PaymentService) refundTx(tx *gorm.DB, original *models.Payment, remark string) (*models.Payment, error) {
	title := "退款 " + original.Title
	if remark != "" {
		title = title + "（" + remark + "）"
	}
	now := time.Now()
	originalID := original.ID
	refund := &models.Payment{
		CustomerID: original.CustomerID,
		BookingID:  original.BookingID,
		CardID:     original.CardID,
		Amount:     models.NewMoneyFromDecimal(original.Amount.Neg()),
		Paid:       true,
		Title:      title,
		Attach:     original.Attach,
		Gateway:    original.Gateway,
		OriginalID: &originalID,
		PaidAt:     &now,
	}

	switch original.Gateway {
	case constants.PaymentGatewayBalance:
		// 储值与赠送两个子余额都要回补，缺一则钱包对不上账
		deposit, reward := original.BalanceSplit()
		ok, err := s.userRepo.WithTx(tx).AdjustBalances(original.CustomerID,
			models.NewMoneyFromDecimal(deposit),
			models.NewMoneyFromDecimal(reward), 0)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUserNotFound
		}
		depositMoney := models.NewMoneyFromDecimal(deposit)
		refund.AmountDeposit = &depositMoney
	case constants.PaymentGatewayPoints:
		if original.AmountInPoints != nil && *original.AmountInPoints > 0 {
			ok, err := s.userRepo.WithTx(tx).AdjustBalances(original.CustomerID, models.Money{}, models.Money{}, *original.AmountInPoints)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrUserNotFound
			}
			refund.AmountInPoints = original.AmountInPoints
		}
	}

	if err := s.paymentRepo.WithTx(tx).Create(refund); err != nil {
		return nil, err
	}
	return refund, nil
}

// GetByID 获取支付记录
func (s *PaymentService) GetByID(id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// List 获取支付列表
func (s *PaymentService) List(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}

func (s *PaymentService) storeGatewayData(paymentID uint, raw map[string]interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return s.paymentRepo.UpdateFields(paymentID, map[string]interface{}{
		"gateway_data": models.JSON(raw),
	})
}

// paymentOutTradeNo 生成对外商户单号
func paymentOutTradeNo(paymentID uint) string {
	return "FF" + strconv.FormatUint(uint64(paymentID), 10)
}

// parseOutTradeNo 从商户单号还原账单ID
func parseOutTradeNo(no string) uint {
	if len(no) <= 2 || no[:2] != "FF" {
		return 0
	}
	id, err := strconv.ParseUint(no[2:], 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
