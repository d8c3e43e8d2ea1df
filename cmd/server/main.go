// Commerce API 主程序
// 功能：提供商城后端服务，包括商品目录、购物车、下单结算、订单管理等
// 架构：基于 DDD + Gin + GORM + Kafka
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	addressapp "github.com/aegisgear/commerce/internal/address/application"
	addressdomain "github.com/aegisgear/commerce/internal/address/domain"
	addressmysql "github.com/aegisgear/commerce/internal/address/infrastructure/persistence/mysql"
	addresshttp "github.com/aegisgear/commerce/internal/address/interfaces/http"
	cartapp "github.com/aegisgear/commerce/internal/cart/application"
	cartdomain "github.com/aegisgear/commerce/internal/cart/domain"
	cartmysql "github.com/aegisgear/commerce/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/aegisgear/commerce/internal/cart/interfaces/http"
	catalogapp "github.com/aegisgear/commerce/internal/catalog/application"
	catalogdomain "github.com/aegisgear/commerce/internal/catalog/domain"
	catalogmysql "github.com/aegisgear/commerce/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/aegisgear/commerce/internal/catalog/interfaces/http"
	orderapp "github.com/aegisgear/commerce/internal/order/application"
	orderdomain "github.com/aegisgear/commerce/internal/order/domain"
	ordermsg "github.com/aegisgear/commerce/internal/order/infrastructure/messaging"
	ordermysql "github.com/aegisgear/commerce/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/aegisgear/commerce/internal/order/interfaces/http"
	userdomain "github.com/aegisgear/commerce/internal/user/domain"
	usermysql "github.com/aegisgear/commerce/internal/user/infrastructure/persistence/mysql"
	userhttp "github.com/aegisgear/commerce/internal/user/interfaces/http"
	"github.com/aegisgear/commerce/pkg/cache"
	"github.com/aegisgear/commerce/pkg/config"
	"github.com/aegisgear/commerce/pkg/db"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/aegisgear/commerce/pkg/metrics"
	"github.com/aegisgear/commerce/pkg/middleware"
	"github.com/aegisgear/commerce/pkg/mq"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. 加载配置
	configPath := os.Getenv("APP_CONFIG")
	if configPath == "" {
		configPath = "configs/server/config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting CommerceService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化数据库
	dbCfg := db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	}
	database, err := db.Init(dbCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Product{},
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		ordermysql.CounterModel(),
		&addressdomain.Address{},
		&userdomain.User{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database schema", "error", err)
	}

	// 4. 初始化 Redis，未启用时降级为空实现
	var cacheStore cache.Store = cache.NopStore{}
	if cfg.Redis.Enabled {
		redisCfg := cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		redisCache, err := cache.New(redisCfg)
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
		}
		defer redisCache.Close()
		cacheStore = redisCache
	}

	// 5. 初始化 Kafka，未启用时降级为空实现
	var publisher orderdomain.EventPublisher = orderdomain.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize Kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = ordermsg.NewKafkaPublisher(producer, cfg.Kafka.OrderTopic)
	}

	// 6. 初始化仓储
	productRepo := catalogmysql.NewProductRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	addressRepo := addressmysql.NewAddressRepository(database.DB)
	userRepo := usermysql.NewUserRepository(database.DB)

	// 7. 初始化应用服务
	cacheTTL := time.Duration(cfg.Commerce.ProductCacheTTL) * time.Second
	catalogCmd := catalogapp.NewCatalogCommandService(productRepo, cacheStore)
	catalogQuery := catalogapp.NewCatalogQueryService(productRepo, cacheStore, cacheTTL)
	cartService := cartapp.NewCartService(cartRepo, productRepo, database)
	checkoutService := orderapp.NewCheckoutService(
		orderRepo, cartRepo, productRepo, addressRepo, database, publisher,
		orderapp.PricingConfig{
			ShippingFee:       decimal.NewFromInt(cfg.Commerce.ShippingFee),
			TaxRate:           decimal.NewFromFloat(cfg.Commerce.TaxRate),
			OrderNumberPrefix: cfg.Commerce.OrderNumberPrefix,
		},
	)
	orderCmd := orderapp.NewOrderCommandService(orderRepo, productRepo, database, publisher)
	orderQuery := orderapp.NewOrderQueryService(orderRepo)
	addressService := addressapp.NewAddressService(addressRepo, database)

	// 8. 初始化指标
	metricsInstance := metrics.New(cfg.ServiceName)
	if err := metricsInstance.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	// 9. 创建 HTTP 服务器
	httpServer := createHTTPServer(cfg, metricsInstance, handlers{
		product: cataloghttp.NewProductHandler(catalogCmd, catalogQuery),
		cart:    carthttp.NewCartHandler(cartService),
		order:   orderhttp.NewOrderHandler(checkoutService, orderCmd, orderQuery, metricsInstance),
		address: addresshttp.NewAddressHandler(addressService),
		user:    userhttp.NewUserHandler(userRepo),
	})

	// 10. 启动 HTTP 服务器
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		logger.Info(ctx, "Starting HTTP server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 11. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down CommerceService")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	logger.Info(ctx, "CommerceService stopped")
}

type handlers struct {
	product *cataloghttp.ProductHandler
	cart    *carthttp.CartHandler
	order   *orderhttp.OrderHandler
	address *addresshttp.AddressHandler
	user    *userhttp.UserHandler
}

// createHTTPServer 创建 HTTP 服务器
func createHTTPServer(cfg *config.Config, m *metrics.Metrics, h handlers) *http.Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 添加中间件
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(m.GinMiddleware())

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	// 公开路由
	public := router.Group("/api")
	h.product.RegisterRoutes(public)

	// 用户路由
	authed := router.Group("/api")
	authed.Use(middleware.AuthRequired(cfg.Auth.JWTSecret))
	h.cart.RegisterRoutes(authed)
	h.order.RegisterRoutes(authed)
	h.address.RegisterRoutes(authed)
	h.user.RegisterRoutes(authed)

	// 管理端路由
	admin := router.Group("/api")
	admin.Use(middleware.AuthRequired(cfg.Auth.JWTSecret), middleware.RequireAdmin())
	h.product.RegisterAdminRoutes(admin)
	h.order.RegisterAdminRoutes(admin)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}
