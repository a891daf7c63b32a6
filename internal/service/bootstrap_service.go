package service

import (
	"context"
	"sync"
	"time"

	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// SessionConfig 会话配置。nil 表示未知（分支被跳过或失败），空切片表示
// 确定为空，消费方必须区分两者。
type SessionConfig struct {
	SockPrice               *models.Money     `json:"sockPrice,omitempty"`
	ExtraParentFullDayPrice *models.Money     `json:"extraParentFullDayPrice,omitempty"`
	KidFullDayPrice         *models.Money     `json:"kidFullDayPrice,omitempty"`
	FreeParentsPerKid       *int              `json:"freeParentsPerKid,omitempty"`
	User                    *models.User      `json:"user,omitempty"`
	Stores                  []models.Store    `json:"stores,omitempty"`
	CardTypes               []models.CardType `json:"cardTypes,omitempty"`
	Coupons                 []models.Coupon   `json:"coupons,omitempty"`
}

// hasPricing 判断计价字段是否已全部就位
func (c *SessionConfig) hasPricing() bool {
	return c.SockPrice != nil && c.ExtraParentFullDayPrice != nil &&
		c.KidFullDayPrice != nil && c.FreeParentsPerKid != nil
}

// BootstrapService 会话配置装配服务。五个数据源并发拉取，单源失败降级
// 为缺失，互不阻塞。
type BootstrapService struct {
	pricingService *PricingService
	couponService  *CouponService
	storeRepo      repository.StoreRepository
	userRepo       repository.UserRepository
	cardTypeRepo   repository.CardTypeRepository
	branchTimeout  time.Duration
}

// NewBootstrapService 创建装配服务
func NewBootstrapService(pricingService *PricingService, couponService *CouponService, storeRepo repository.StoreRepository, userRepo repository.UserRepository, cardTypeRepo repository.CardTypeRepository, branchTimeoutSeconds int) *BootstrapService {
	timeout := time.Duration(branchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BootstrapService{
		pricingService: pricingService,
		couponService:  couponService,
		storeRepo:      storeRepo,
		userRepo:       userRepo,
		cardTypeRepo:   cardTypeRepo,
		branchTimeout:  timeout,
	}
}

// LoadInput 装配输入。Seed 携带调用方已有的字段，对应分支整体跳过；
// UserID 为零值视为未持有效凭证，鉴权分支解析为缺失而非报错。
type LoadInput struct {
	Seed   SessionConfig
	UserID uint
}

// bootstrapBranch 单个数据源分支。run 只读数据库并返回写回闭包，
// 对 result 的写入统一发生在 Wait 之后的主 goroutine。
type bootstrapBranch struct {
	name string
	skip bool
	run  func(context.Context) (func(*SessionConfig), error)
}

// bootstrapOutcome 分支结果槽，分支间无共享可变状态
type bootstrapOutcome struct {
	name  string
	apply func(*SessionConfig)
	err   error
}

// Load 装配会话配置
func (s *BootstrapService) Load(ctx context.Context, input LoadInput) *SessionConfig {
	result := input.Seed
	credentialed := input.UserID > 0
	branches := s.buildBranches(&result, input.UserID, credentialed)

	outcomes := make([]*bootstrapOutcome, len(branches))
	var wg sync.WaitGroup
	for i := range branches {
		b := branches[i]
		if b.skip {
			continue
		}
		slot := &bootstrapOutcome{name: b.name}
		outcomes[i] = slot
		wg.Add(1)
		go func() {
			defer wg.Done()
			branchCtx, cancel := context.WithTimeout(ctx, s.branchTimeout)
			defer cancel()

			type runResult struct {
				apply func(*SessionConfig)
				err   error
			}
			done := make(chan runResult, 1)
			go func() {
				apply, err := b.run(branchCtx)
				done <- runResult{apply: apply, err: err}
			}()
			select {
			case r := <-done:
				slot.apply = r.apply
				slot.err = r.err
			case <-branchCtx.Done():
				slot.err = branchCtx.Err()
			}
		}()
	}
	wg.Wait()

	for _, slot := range outcomes {
		if slot == nil {
			continue
		}
		if slot.err != nil {
			logger.Warnw("会话配置分支拉取失败，降级为缺失", "branch", slot.name, "error", slot.err)
			continue
		}
		if slot.apply != nil {
			slot.apply(&result)
		}
	}
	return &result
}

func (s *BootstrapService) buildBranches(seed *SessionConfig, userID uint, credentialed bool) []bootstrapBranch {
	return []bootstrapBranch{
		{
			name: "pricing",
			skip: seed.hasPricing(),
			run: func(ctx context.Context) (func(*SessionConfig), error) {
				cfg, err := s.pricingService.Config()
				if err != nil {
					return nil, err
				}
				return func(result *SessionConfig) {
					if result.SockPrice == nil {
						result.SockPrice = &cfg.SockPrice
					}
					if result.ExtraParentFullDayPrice == nil {
						result.ExtraParentFullDayPrice = &cfg.ExtraParentFullDayPrice
					}
					if result.KidFullDayPrice == nil {
						result.KidFullDayPrice = &cfg.KidFullDayPrice
					}
					if result.FreeParentsPerKid == nil {
						result.FreeParentsPerKid = &cfg.FreeParentsPerKid
					}
				}, nil
			},
		},
		{
			name: "stores",
			skip: seed.Stores != nil,
			run: func(ctx context.Context) (func(*SessionConfig), error) {
				stores, _, err := s.storeRepo.List(repository.StoreListFilter{
					ListQuery: repository.ListQuery{NoLimit: true},
				})
				if err != nil {
					return nil, err
				}
				if stores == nil {
					stores = []models.Store{}
				}
				return func(result *SessionConfig) {
					result.Stores = stores
				}, nil
			},
		},
		{
			name: "user",
			skip: seed.User != nil || !credentialed,
			run: func(ctx context.Context) (func(*SessionConfig), error) {
				user, err := s.userRepo.GetWithCards(userID)
				if err != nil {
					return nil, err
				}
				if user == nil {
					return nil, ErrUserNotFound
				}
				now := time.Now()
				for i := range user.Cards {
					user.Cards[i].Status = EffectiveCardStatus(&user.Cards[i], now)
				}
				return func(result *SessionConfig) {
					result.User = user
				}, nil
			},
		},
		{
			name: "cardTypes",
			skip: seed.CardTypes != nil || !credentialed,
			run: func(ctx context.Context) (func(*SessionConfig), error) {
				cardTypes, _, err := s.cardTypeRepo.List(repository.CardTypeListFilter{
					ListQuery: repository.ListQuery{NoLimit: true},
				})
				if err != nil {
					return nil, err
				}
				if cardTypes == nil {
					cardTypes = []models.CardType{}
				}
				return func(result *SessionConfig) {
					result.CardTypes = cardTypes
				}, nil
			},
		},
		{
			name: "coupons",
			skip: seed.Coupons != nil || !credentialed,
			run: func(ctx context.Context) (func(*SessionConfig), error) {
				coupons, err := s.couponService.ListRedeemable()
				if err != nil {
					return nil, err
				}
				if coupons == nil {
					coupons = []models.Coupon{}
				}
				return func(result *SessionConfig) {
					result.Coupons = coupons
				}, nil
			},
		},
	}
}
