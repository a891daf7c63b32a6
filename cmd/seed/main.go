package main

import (
	"time"

	"github.com/funfair-next/internal/config"
	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 门店
	stores := []models.Store{
		{Name: "融汇城店", Address: "融汇城购物中心三层", Phone: "0571-88880001", PartyRooms: 2},
		{Name: "滨江天街店", Address: "滨江天街B馆四层", Phone: "0571-88880002", PartyRooms: 3},
	}
	storeIDs := map[string]uint{}
	for _, store := range stores {
		var existing models.Store
		if err := models.DB.Where("name = ?", store.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&store).Error; err != nil {
				stdLog.Printf("Failed to create store %s: %v", store.Name, err)
				continue
			}
			stdLog.Printf("Created store: %s", store.Name)
			storeIDs[store.Name] = store.ID
		} else {
			stdLog.Printf("Store already exists: %s", existing.Name)
			storeIDs[existing.Name] = existing.ID
		}
	}

	now := time.Now()
	yearEnd := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, time.Local)

	// 卡种
	cardTypes := []models.CardType{
		{
			Title:             "畅玩10次卡",
			Slug:              "times-10",
			Type:              constants.CardTypeKindTimes,
			Content:           "全门店通用，单次核销覆盖1名儿童",
			Times:             10,
			Start:             now,
			End:               yearEnd,
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(880)),
			MaxKids:           1,
			FreeParentsPerKid: 1,
			OpenForClient:     true,
		},
		{
			Title:             "季度畅玩卡",
			Slug:              "period-quarter",
			Type:              constants.CardTypeKindPeriod,
			Content:           "有效期内不限次入场",
			Start:             now,
			End:               now.AddDate(0, 3, 0),
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(1680)),
			MaxKids:           1,
			FreeParentsPerKid: 1,
			OpenForClient:     true,
		},
		{
			Title:             "储值1000卡",
			Slug:              "balance-1000",
			Type:              constants.CardTypeKindBalance,
			Content:           "储值1200，售价1000，消费按余额抵扣",
			Start:             now,
			End:               yearEnd,
			Balance:           models.NewMoneyFromDecimal(decimal.NewFromInt(1200)),
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
			MaxKids:           1,
			FreeParentsPerKid: 1,
			OpenForClient:     true,
		},
	}
	for _, cardType := range cardTypes {
		var existing models.CardType
		if err := models.DB.Where("slug = ?", cardType.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cardType).Error; err != nil {
				stdLog.Printf("Failed to create card type %s: %v", cardType.Slug, err)
			} else {
				stdLog.Printf("Created card type: %s", cardType.Slug)
			}
		} else {
			stdLog.Printf("Card type already exists: %s", cardType.Slug)
		}
	}

	// 套餐券
	coupons := []models.Coupon{
		{
			Title:             "单儿童畅玩券",
			Content:           "第三方平台售卖，覆盖1名儿童全天畅玩",
			KidsCount:         1,
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			PriceThirdParty:   models.NewMoneyFromDecimal(decimal.NewFromInt(88)),
			FreeParentsPerKid: 1,
			Start:             now,
			End:               yearEnd,
			Enabled:           true,
		},
		{
			Title:             "双儿童家庭券",
			Content:           "覆盖2名儿童，每名儿童1名免费陪同成人",
			KidsCount:         2,
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(190)),
			PriceThirdParty:   models.NewMoneyFromDecimal(decimal.NewFromInt(168)),
			FreeParentsPerKid: 1,
			Start:             now,
			End:               yearEnd,
			Enabled:           true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("title = ?", coupon.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Title, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Title)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Title)
		}
	}

	// 活动与礼品挂在第一家门店下
	var firstStoreID uint
	for _, id := range storeIDs {
		firstStoreID = id
		break
	}
	if firstStoreID != 0 {
		maxKids := 20
		left := maxKids
		price := models.NewMoneyFromDecimal(decimal.NewFromInt(68))
		event := models.Event{
			Title:         "周末泡泡派对",
			Content:       "每周六下午的泡泡主题派对，名额有限",
			KidsCountMax:  &maxKids,
			KidsCountLeft: &left,
			Price:         &price,
			Date:          now.AddDate(0, 0, 7),
			StoreID:       firstStoreID,
		}
		var existingEvent models.Event
		if err := models.DB.Where("title = ? AND store_id = ?", event.Title, firstStoreID).First(&existingEvent).Error; err != nil {
			if err := models.DB.Create(&event).Error; err != nil {
				stdLog.Printf("Failed to create event %s: %v", event.Title, err)
			} else {
				stdLog.Printf("Created event: %s", event.Title)
			}
		} else {
			stdLog.Printf("Event already exists: %s", existingEvent.Title)
		}

		gift := models.Gift{
			Title:         "定制保温杯",
			Content:       "会员积分兑换礼品",
			Quantity:      50,
			PriceInPoints: 500,
			StoreID:       firstStoreID,
		}
		var existingGift models.Gift
		if err := models.DB.Where("title = ? AND store_id = ?", gift.Title, firstStoreID).First(&existingGift).Error; err != nil {
			if err := models.DB.Create(&gift).Error; err != nil {
				stdLog.Printf("Failed to create gift %s: %v", gift.Title, err)
			} else {
				stdLog.Printf("Created gift: %s", gift.Title)
			}
		} else {
			stdLog.Printf("Gift already exists: %s", existingGift.Title)
		}
	}

	stdLog.Printf("Seed finished")
}
