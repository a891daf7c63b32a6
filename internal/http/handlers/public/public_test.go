package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/funfair-next/internal/config"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/provider"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newBootstrapTestHandler(t *testing.T) *Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:public_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(
		&models.Store{}, &models.User{}, &models.CardType{}, &models.Card{},
		&models.Coupon{}, &models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	if err := db.Create(&models.Store{Name: "测试门店"}).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	pricing := service.NewPricingService(
		service.NewSettingService(repository.NewSettingRepository(db)),
		config.PricingConfig{SockPrice: 5, ExtraParentFullDayPrice: 50, KidFullDayPrice: 100, FreeParentsPerKid: 1},
	)
	coupons := service.NewCouponService(repository.NewCouponRepository(db), repository.NewStoreRepository(db))
	bootstrap := service.NewBootstrapService(
		pricing,
		coupons,
		repository.NewStoreRepository(db),
		repository.NewUserRepository(db),
		repository.NewCardTypeRepository(db),
		5,
	)
	return New(&provider.Container{
		PricingService:   pricing,
		BootstrapService: bootstrap,
	})
}

func TestBootstrapAcceptsEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newBootstrapTestHandler(t)

	r := gin.New()
	r.POST("/public/bootstrap", h.Bootstrap)

	// 游客侧常见调用：不带请求体
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/public/bootstrap", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			Stores []models.Store `json:"stores"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 0 {
		t.Fatalf("status_code want 0 got %d", resp.StatusCode)
	}
	if len(resp.Data.Stores) != 1 {
		t.Fatalf("expected store list from empty seed, got %+v", resp.Data.Stores)
	}
}

func TestBootstrapRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newBootstrapTestHandler(t)

	r := gin.New()
	r.POST("/public/bootstrap", h.Bootstrap)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/public/bootstrap", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
}
