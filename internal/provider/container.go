package provider

import (
	"github.com/funfair-next/internal/authz"
	"github.com/funfair-next/internal/cache"
	"github.com/funfair-next/internal/config"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/payment/alipay"
	"github.com/funfair-next/internal/payment/wechatpay"
	"github.com/funfair-next/internal/queue"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	StoreRepo    repository.StoreRepository
	UserRepo     repository.UserRepository
	CardTypeRepo repository.CardTypeRepository
	CardRepo     repository.CardRepository
	CouponRepo   repository.CouponRepository
	EventRepo    repository.EventRepository
	GiftRepo     repository.GiftRepository
	BookingRepo  repository.BookingRepository
	PaymentRepo  repository.PaymentRepository
	PostRepo     repository.PostRepository
	SettingRepo  repository.SettingRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	SettingService   *service.SettingService
	PricingService   *service.PricingService
	StoreService     *service.StoreService
	UserService      *service.UserService
	CardTypeService  *service.CardTypeService
	CardService      *service.CardService
	CouponService    *service.CouponService
	EventService     *service.EventService
	GiftService      *service.GiftService
	PostService      *service.PostService
	BookingService   *service.BookingService
	PaymentService   *service.PaymentService
	BootstrapService *service.BootstrapService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.StoreRepo = repository.NewStoreRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CardTypeRepo = repository.NewCardTypeRepository(db)
	c.CardRepo = repository.NewCardRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.EventRepo = repository.NewEventRepository(db)
	c.GiftRepo = repository.NewGiftRepository(db)
	c.BookingRepo = repository.NewBookingRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.PricingService = service.NewPricingService(c.SettingService, c.Config.Pricing)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.StoreService = service.NewStoreService(c.StoreRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.StoreRepo, c.AuthService)
	c.CardTypeService = service.NewCardTypeService(c.CardTypeRepo, c.StoreRepo)
	c.CardService = service.NewCardService(c.CardRepo, c.CardTypeRepo, c.UserRepo, c.PaymentRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.StoreRepo)
	c.EventService = service.NewEventService(c.EventRepo, c.StoreRepo)
	c.GiftService = service.NewGiftService(c.GiftRepo, c.StoreRepo)
	c.PostService = service.NewPostService(c.PostRepo)
	c.BookingService = service.NewBookingService(
		c.BookingRepo, c.PaymentRepo, c.CardRepo, c.CouponRepo, c.EventRepo, c.GiftRepo,
		c.UserRepo, c.StoreRepo, c.PricingService, c.QueueClient,
		c.Config.Booking.PaymentExpireMinutes,
	)

	var wechatProvider *wechatpay.Provider
	if c.Config.Wechat.Enabled {
		wechatProvider, err = wechatpay.New(c.Config.Wechat)
		if err != nil {
			logger.Errorw("provider_init_wechatpay_failed", "error", err)
			wechatProvider = nil
		}
	}
	var alipayProvider *alipay.Provider
	if c.Config.Alipay.Enabled {
		alipayProvider, err = alipay.New(c.Config.Alipay)
		if err != nil {
			logger.Errorw("provider_init_alipay_failed", "error", err)
			alipayProvider = nil
		}
	}
	c.PaymentService = service.NewPaymentService(
		c.PaymentRepo, c.BookingService, c.CardService, c.UserRepo,
		wechatProvider, alipayProvider,
	)
	c.BootstrapService = service.NewBootstrapService(
		c.PricingService, c.CouponService, c.StoreRepo, c.UserRepo, c.CardTypeRepo,
		c.Config.Booking.BootstrapTimeoutSeconds,
	)
}
