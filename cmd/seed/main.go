package main

import (
	"os"

	"github.com/dpit-cms/internal/authz"
	"github.com/dpit-cms/internal/config"
	"github.com/dpit-cms/internal/constants"
	"github.com/dpit-cms/internal/logger"
	"github.com/dpit-cms/internal/models"

	"gorm.io/gorm"
)

func money(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}

func moneyPtr(v int64) *models.Money {
	m := money(v)
	return &m
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	services := []models.Service{
		{
			Title:                 "Лендинг под ключ",
			Slug:                  "landing",
			ShortDescription:      "Одностраничный сайт с формой заявки",
			TechnicalRequirements: models.StringArray{"Адаптивная вёрстка", "Форма заявки", "Яндекс.Метрика"},
			PriceType:             constants.PriceTypeFixed,
			PriceFixed:            money(30000),
			Currency:              constants.CurrencyRUB,
			EstimatedTime:         "5-7 дней",
			IsPopular:             true,
			SortOrder:             10,
			IsActive:              true,
		},
		{
			Title:            "Интернет-магазин",
			Slug:             "e-commerce",
			ShortDescription: "Каталог, корзина и оплата",
			PriceType:        constants.PriceTypeRange,
			PriceMin:         money(150000),
			PriceMax:         money(400000),
			Currency:         constants.CurrencyRUB,
			EstimatedTime:    "1-3 месяца",
			IsPopular:        true,
			SortOrder:        20,
			IsActive:         true,
		},
		{
			Title:            "Техническая поддержка",
			Slug:             "support",
			ShortDescription: "Сопровождение и доработки по договорённости",
			PriceType:        constants.PriceTypeNegotiable,
			Currency:         constants.CurrencyRUB,
			SortOrder:        30,
			IsActive:         true,
		},
	}
	for i := range services {
		svc := services[i]
		if err := upsertBySlug(models.DB, &models.Service{}, svc.Slug, &svc); err != nil {
			stdLog.Printf("Failed to seed service %s: %v", svc.Slug, err)
			continue
		}
		stdLog.Printf("Seeded service: %s", svc.Slug)
	}

	portfolio := []models.Portfolio{
		{
			Title:               "Сайт строительной компании",
			Slug:                "construction-site",
			ProjectURL:          "https://example.com/construction",
			IsAvailableForOrder: true,
			Price:               moneyPtr(90000),
			Currency:            constants.CurrencyRUB,
			IsActive:            true,
		},
		{
			Title:               "CRM для автосервиса",
			Slug:                "autoservice-crm",
			IsAvailableForOrder: true,
			Currency:            constants.CurrencyRUB,
			IsActive:            true,
		},
		{
			Title:    "Архивный проект",
			Slug:     "archived-project",
			Currency: constants.CurrencyRUB,
			IsActive: true,
		},
	}
	for i := range portfolio {
		item := portfolio[i]
		if err := upsertBySlug(models.DB, &models.Portfolio{}, item.Slug, &item); err != nil {
			stdLog.Printf("Failed to seed portfolio %s: %v", item.Slug, err)
			continue
		}
		stdLog.Printf("Seeded portfolio: %s", item.Slug)
	}

	staff, err := models.InitDefaultStaff(models.DB, os.Getenv("DPIT_DEFAULT_STAFF_EMAIL"), os.Getenv("DPIT_DEFAULT_STAFF_PASSWORD"))
	if err != nil {
		stdLog.Fatalf("Failed to seed staff: %v", err)
	}
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}
	if err := authzService.SetStaffRoles(staff.ID, []string{authz.RoleManager}); err != nil {
		stdLog.Fatalf("Failed to grant staff role: %v", err)
	}
	stdLog.Printf("Seeded staff: %s (%s)", staff.Email, authz.RoleManager)
}

// upsertBySlug 按 slug 创建或整体覆盖，保留主键与创建时间
func upsertBySlug(db *gorm.DB, model interface{}, slug string, value interface{}) error {
	var id uint
	err := db.Model(model).Unscoped().Where("slug = ?", slug).Select("id").Scan(&id).Error
	if err != nil {
		return err
	}
	if id == 0 {
		return db.Create(value).Error
	}
	switch v := value.(type) {
	case *models.Service:
		v.ID = id
	case *models.Portfolio:
		v.ID = id
	}
	return db.Unscoped().Model(value).Select("*").Omit("id", "created_at").Updates(value).Error
}
