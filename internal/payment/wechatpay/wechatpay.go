package wechatpay

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/funfair-next/internal/config"

	"github.com/shopspring/decimal"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
)

var (
	ErrConfigInvalid    = errors.New("wechatpay config invalid")
	ErrRequestFailed    = errors.New("wechatpay request failed")
	ErrResponseInvalid  = errors.New("wechatpay response invalid")
	ErrSignatureInvalid = errors.New("wechatpay signature invalid")
)

const baseURL = "https://api.mch.weixin.qq.com"

// Provider 微信官方支付（APIv3 Native 扫码）
type Provider struct {
	cfg config.WechatConfig
}

// New 创建微信支付提供方
func New(cfg config.WechatConfig) (*Provider, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg}, nil
}

// CreateInput 下单输入。PaymentID 放入 attach 字段供回调定位账单。
type CreateInput struct {
	PaymentNo   string
	PaymentID   uint
	Amount      string
	Description string
}

// CreateResult 下单结果，QRCode 为柜台展示的收款码内容
type CreateResult struct {
	QRCode   string
	PrepayID string
	Raw      map[string]interface{}
}

// NotifyResult 回调验签解密结果
type NotifyResult struct {
	EventType     string
	PaymentNo     string
	PaymentID     uint
	TransactionID string
	Succeeded     bool
	Amount        string
	PaidAt        *time.Time
	Raw           map[string]interface{}
}

// CreateNative 创建 Native 扫码支付单
func (p *Provider) CreateNative(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if strings.TrimSpace(input.PaymentNo) == "" || strings.TrimSpace(input.Amount) == "" {
		return nil, fmt.Errorf("%w: payment input is invalid", ErrConfigInvalid)
	}
	amountFen, err := amountToFen(input.Amount)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := p.apiClient(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"appid":        p.cfg.AppID,
		"mchid":        p.cfg.MerchantID,
		"description":  buildDescription(input.Description, input.PaymentNo),
		"out_trade_no": input.PaymentNo,
		"attach":       strconv.FormatUint(uint64(input.PaymentID), 10),
		"notify_url":   p.cfg.NotifyURL,
		"amount": map[string]interface{}{
			"total":    amountFen,
			"currency": "CNY",
		},
	}

	raw, err := postJSON(ctx, client, baseURL+"/v3/pay/transactions/native", payload)
	if err != nil {
		return nil, err
	}
	codeURL := strings.TrimSpace(readString(raw, "code_url"))
	if codeURL == "" {
		return nil, fmt.Errorf("%w: missing code_url", ErrResponseInvalid)
	}
	return &CreateResult{
		QRCode:   codeURL,
		PrepayID: strings.TrimSpace(readString(raw, "prepay_id")),
		Raw:      raw,
	}, nil
}

// VerifyNotify 验签并解密异步回调
func (p *Provider) VerifyNotify(ctx context.Context, headers map[string]string, body []byte) (*NotifyResult, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty notify body", ErrResponseInvalid)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	privateKey, err := parsePrivateKey(p.cfg.MerchantPrivateKey)
	if err != nil {
		return nil, err
	}
	mgr := downloader.MgrInstance()
	if !mgr.HasDownloader(ctx, p.cfg.MerchantID) {
		if err := mgr.RegisterDownloaderWithPrivateKey(ctx, privateKey, p.cfg.MerchantSerialNo, p.cfg.MerchantID, p.cfg.APIV3Key); err != nil {
			return nil, fmt.Errorf("%w: register certificate downloader failed", ErrRequestFailed)
		}
	}
	verifier := verifiers.NewSHA256WithRSAVerifier(mgr.GetCertificateVisitor(p.cfg.MerchantID))
	handler, err := notify.NewRSANotifyHandler(p.cfg.APIV3Key, verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: init notify handler failed", ErrConfigInvalid)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.NotifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build notify request failed", ErrResponseInvalid)
	}
	for key, value := range headers {
		if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			continue
		}
		req.Header.Set(key, value)
	}

	transaction := new(payments.Transaction)
	notifyReq, err := handler.ParseNotifyRequest(ctx, req, transaction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	raw := map[string]interface{}{}
	_ = json.Unmarshal(body, &raw)

	result := &NotifyResult{
		EventType:     strings.TrimSpace(notifyReq.EventType),
		PaymentNo:     strings.TrimSpace(stringValue(transaction.OutTradeNo)),
		TransactionID: strings.TrimSpace(stringValue(transaction.TransactionId)),
		Succeeded:     strings.EqualFold(strings.TrimSpace(stringValue(transaction.TradeState)), "SUCCESS"),
		PaidAt:        parseRFC3339(stringValue(transaction.SuccessTime)),
		Raw:           raw,
	}
	if transaction.Amount != nil && transaction.Amount.Total != nil {
		result.Amount = fenToAmount(*transaction.Amount.Total)
	}
	if attach := strings.TrimSpace(stringValue(transaction.Attach)); attach != "" {
		if id, err := strconv.ParseUint(attach, 10, 64); err == nil {
			result.PaymentID = uint(id)
		}
	}
	return result, nil
}

func (p *Provider) apiClient(ctx context.Context) (*core.Client, error) {
	privateKey, err := parsePrivateKey(p.cfg.MerchantPrivateKey)
	if err != nil {
		return nil, err
	}
	client, err := core.NewClient(ctx,
		option.WithMerchantCredential(p.cfg.MerchantID, p.cfg.MerchantSerialNo, privateKey),
		option.WithoutValidator(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: init client failed", ErrConfigInvalid)
	}
	return client, nil
}

func validateConfig(cfg config.WechatConfig) error {
	if strings.TrimSpace(cfg.AppID) == "" {
		return fmt.Errorf("%w: appid is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return fmt.Errorf("%w: mchid is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantSerialNo) == "" {
		return fmt.Errorf("%w: merchant_serial_no is required", ErrConfigInvalid)
	}
	if len(strings.TrimSpace(cfg.APIV3Key)) != 32 {
		return fmt.Errorf("%w: api_v3_key must be 32 chars", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.NotifyURL)); err != nil {
		return fmt.Errorf("%w: notify_url is invalid", ErrConfigInvalid)
	}
	if _, err := parsePrivateKey(cfg.MerchantPrivateKey); err != nil {
		return err
	}
	return nil
}

func parsePrivateKey(raw string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(raw)))
	if block == nil {
		return nil, fmt.Errorf("%w: merchant_private_key is not PEM", ErrConfigInvalid)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		if rsaKey, rsaErr := x509.ParsePKCS1PrivateKey(block.Bytes); rsaErr == nil {
			return rsaKey, nil
		}
		return nil, fmt.Errorf("%w: merchant_private_key parse failed", ErrConfigInvalid)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: merchant_private_key is not RSA", ErrConfigInvalid)
	}
	return rsaKey, nil
}

func postJSON(ctx context.Context, client *core.Client, requestURL string, payload map[string]interface{}) (map[string]interface{}, error) {
	result, err := client.Post(ctx, requestURL, payload)
	if err != nil {
		var apiErr *core.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, strings.TrimSpace(apiErr.Message))
		}
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if result == nil || result.Response == nil || result.Response.Body == nil {
		return nil, fmt.Errorf("%w: empty response", ErrResponseInvalid)
	}
	defer result.Response.Body.Close()

	body, err := io.ReadAll(result.Response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	if result.Response.StatusCode < 200 || result.Response.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d body %s", ErrResponseInvalid, result.Response.StatusCode, strings.TrimSpace(string(body)))
	}

	raw := map[string]interface{}{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func amountToFen(amount string) (int64, error) {
	dec, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if dec.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	fen := dec.Mul(decimal.NewFromInt(100))
	if !fen.Equal(fen.Truncate(0)) {
		return 0, fmt.Errorf("%w: amount precision exceeds fen", ErrConfigInvalid)
	}
	return fen.IntPart(), nil
}

func fenToAmount(fen int64) string {
	return decimal.NewFromInt(fen).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func buildDescription(description, paymentNo string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		description = "账单 " + paymentNo
	}
	runes := []rune(description)
	if len(runes) > 127 {
		return string(runes[:127])
	}
	return description
}

func parseRFC3339(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil {
		return ""
	}
	if value, ok := raw[key].(string); ok {
		return value
	}
	return ""
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
