package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funfair-next/internal/authz"
	"github.com/funfair-next/internal/cache"
	"github.com/funfair-next/internal/config"
	adminhandlers "github.com/funfair-next/internal/http/handlers/admin"
	publichandlers "github.com/funfair-next/internal/http/handlers/public"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ff"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁，请 %d 秒后重试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/stores", publicHandler.ListStores)
			public.POST("/bootstrap", OptionalAuthMiddleware(cfg.JWT.SecretKey), publicHandler.Bootstrap)
		}

		// 员工登录
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("login")), publicHandler.Login)
		}

		// 支付回调
		apiV1.POST("/payments/notify/wechat", publicHandler.WechatNotify)
		apiV1.POST("/payments/notify/alipay", publicHandler.AlipayNotify)

		// 后台接口
		admin := apiV1.Group("/admin")
		{
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), StaffRBACMiddleware(c.AuthzService))
			{
				// 预约管理
				authorized.GET("/bookings", adminHandler.ListBookings)
				authorized.POST("/bookings", adminHandler.CreateBooking)
				authorized.GET("/bookings/:id", adminHandler.GetBooking)
				authorized.PATCH("/bookings/:id", adminHandler.UpdateBooking)
				authorized.POST("/bookings/:id/check-in", adminHandler.CheckInBooking)
				authorized.POST("/bookings/:id/cancel", adminHandler.CancelBooking)
				authorized.POST("/bookings/:id/refund", adminHandler.RefundBooking)
				authorized.POST("/bookings/:id/finish", adminHandler.FinishBooking)
				authorized.POST("/bookings/:id/payments", adminHandler.AddBookingPayment)

				// 会员卡管理
				authorized.GET("/cards", adminHandler.ListCards)
				authorized.POST("/cards", adminHandler.PurchaseCard)
				authorized.POST("/cards/redeem-gift", adminHandler.RedeemGiftCard)
				authorized.GET("/cards/:id", adminHandler.GetCard)
				authorized.PATCH("/cards/:id", adminHandler.UpdateCard)
				authorized.POST("/cards/:id/cancel", adminHandler.CancelPendingCard)

				// 卡种管理
				authorized.GET("/card-types", adminHandler.ListCardTypes)
				authorized.POST("/card-types", adminHandler.CreateCardType)
				authorized.GET("/card-types/:id", adminHandler.GetCardType)
				authorized.PATCH("/card-types/:id", adminHandler.UpdateCardType)

				// 套餐券管理
				authorized.GET("/coupons", adminHandler.ListCoupons)
				authorized.POST("/coupons", adminHandler.CreateCoupon)
				authorized.GET("/coupons/:id", adminHandler.GetCoupon)
				authorized.PATCH("/coupons/:id", adminHandler.UpdateCoupon)

				// 活动管理
				authorized.GET("/events", adminHandler.ListEvents)
				authorized.POST("/events", adminHandler.CreateEvent)
				authorized.GET("/events/:id", adminHandler.GetEvent)
				authorized.PATCH("/events/:id", adminHandler.UpdateEvent)
				authorized.DELETE("/events/:id", adminHandler.DeleteEvent)

				// 礼品管理
				authorized.GET("/gifts", adminHandler.ListGifts)
				authorized.POST("/gifts", adminHandler.CreateGift)
				authorized.GET("/gifts/:id", adminHandler.GetGift)
				authorized.PATCH("/gifts/:id", adminHandler.UpdateGift)
				authorized.DELETE("/gifts/:id", adminHandler.DeleteGift)

				// 门店管理
				authorized.GET("/stores", adminHandler.ListStores)
				authorized.POST("/stores", adminHandler.CreateStore)
				authorized.GET("/stores/:id", adminHandler.GetStore)
				authorized.PATCH("/stores/:id", adminHandler.UpdateStore)
				authorized.DELETE("/stores/:id", adminHandler.DeleteStore)

				// 客户与员工管理
				authorized.GET("/users", adminHandler.ListUsers)
				authorized.POST("/users", adminHandler.CreateUser)
				authorized.GET("/users/:id", adminHandler.GetUser)
				authorized.PATCH("/users/:id", adminHandler.UpdateUser)
				authorized.GET("/users/:id/roles", adminHandler.GetStaffRoles)
				authorized.PUT("/users/:id/roles", adminHandler.SetStaffRoles)

				// 文章管理
				authorized.GET("/posts", adminHandler.ListPosts)
				authorized.POST("/posts", adminHandler.CreatePost)
				authorized.GET("/posts/:id", adminHandler.GetPost)
				authorized.PATCH("/posts/:id", adminHandler.UpdatePost)
				authorized.DELETE("/posts/:id", adminHandler.DeletePost)

				// 支付记录
				authorized.GET("/payments", adminHandler.ListPayments)
				authorized.GET("/payments/:id", adminHandler.GetPayment)
				authorized.POST("/payments/:id/online", adminHandler.CreateOnlinePayment)
				authorized.POST("/payments/:id/refund", adminHandler.RefundPayment)

				// 系统设置
				authorized.GET("/settings", adminHandler.ListSettings)
				authorized.GET("/settings/:key", adminHandler.GetSetting)
				authorized.PUT("/settings/:key", adminHandler.UpdateSetting)
				authorized.DELETE("/settings/:key", adminHandler.DeleteSetting)

				// 当前员工
				authorized.GET("/me", adminHandler.GetMe)
				authorized.POST("/me/password", adminHandler.ChangePassword)

				// 权限管理
				authorized.GET("/authz/roles", adminHandler.ListRoles)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantRolePolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeRolePolicy)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildStaffPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type staffPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildStaffPermissionCatalog 枚举后台路由，生成可授权的权限清单
func buildStaffPermissionCatalog(engine *gin.Engine) []staffPermissionCatalogItem {
	if engine == nil {
		return []staffPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]staffPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, staffPermissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
