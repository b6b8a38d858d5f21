package services

import (
	"knitcraft_server/database"
	"knitcraft_server/repository"
	"knitcraft_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService        *AuthService
	EmailService       *EmailService
	CacheService       *CacheService
	EventService       *EventService
	HealthService      *HealthService
	ProductService     *ProductService
	OrderService       *OrderService
	CartService        *CartService
	ReviewService      *ReviewService
	CustomOrderService *CustomOrderService
	ContentService     *ContentService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	reviews := repository.NewReviewRepository(db)
	customOrders := repository.NewCustomOrderRepository(db)
	content := repository.NewContentRepository(db)

	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	eventService := NewEventService(logger, cfg.Kafka)

	return &ServiceManager{
		AuthService:        NewAuthService(logger, cfg, users, cacheService),
		EmailService:       emailService,
		CacheService:       cacheService,
		EventService:       eventService,
		HealthService:      NewHealthService(logger, db, cacheService),
		ProductService:     NewProductService(logger, products, cacheService),
		OrderService:       NewOrderService(logger, cfg, users, products, orders, emailService, eventService),
		CartService:        NewCartService(logger, cacheService, products),
		ReviewService:      NewReviewService(logger, reviews, users, products, orders, emailService),
		CustomOrderService: NewCustomOrderService(logger, cfg, customOrders, users, emailService, eventService),
		ContentService:     NewContentService(logger, content, emailService),
	}
}

// Close releases the cache pool and the Kafka producer.
func (sm *ServiceManager) Close() {
	if err := sm.EventService.Close(); err != nil {
		sm.CacheService.logger.Warn("Failed to close Kafka producer", gecho.Field("error", err))
	}
	if err := sm.CacheService.Close(); err != nil {
		sm.CacheService.logger.Warn("Failed to close redis client", gecho.Field("error", err))
	}
}
