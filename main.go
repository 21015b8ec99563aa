package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"datacatalogapi/bootstrap"
	"datacatalogapi/config"
	"datacatalogapi/controllers"
	_ "datacatalogapi/docs"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/services"
	"datacatalogapi/services/job"
	"datacatalogapi/services/warehouse"
	"datacatalogapi/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           datacatalogapi
// @version         1.0
// @description     Versioned clinical data catalog API

// @BasePath  /api

func main() {
	// 1) Load config
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("LoadConfig error: %v", err)
	}

	// 2) Connect DB (GORM)
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("ConnectDB error: %v", err)
	}
	if config.DB == nil {
		log.Fatal("Database is nil after ConnectDB")
	}

	// 3) Init structured logger with config
	logLevel := logger.ParseLogLevel(config.Cfg.LogLevel)
	logger.InitWithConfig(
		config.Cfg.LogFile,
		logLevel,
		config.Cfg.LogMaxSize,
		config.Cfg.LogMaxBackups,
		config.Cfg.LogMaxAge,
		config.Cfg.LogCompress,
	)
	logger.Infof("Starting data catalog API with log level: %s", config.Cfg.LogLevel)

	if err := bootstrap.LoadData(); err != nil {
		log.Fatalf("Load data error: %v", err)
	}

	versionSrv := services.NewVersionService()
	importWorker := job.GetImportWorkerService(versionSrv.ImportData, config.Cfg.ImportQueueSize)

	controllers.SetVersionService(versionSrv)
	controllers.SetImportWorker(importWorker)
	controllers.SetPublishService(services.NewPublishService())
	controllers.SetCatalogService(services.NewCatalogService())

	if config.Cfg.WarehouseDSN != "" {
		warehouseClient, err := warehouse.NewClient(config.Cfg.WarehouseDSN)
		if err != nil {
			log.Fatalf("Warehouse connection error: %v", err)
		}
		controllers.SetWarehouseSyncService(warehouse.NewSyncService(warehouseClient))
	}

	// 4) Setup Gin
	router := gin.Default()
	router.Use(utils.LoggerMiddleware())

	v1 := router.Group("/api")
	{
		controllers.RegisterVersionRoutes(v1)
		controllers.RegisterPublishRoutes(v1)
		controllers.RegisterWarehouseRoutes(v1)
		controllers.RegisterCatalogRoutes(v1)
		controllers.RegisterJobRoutes(v1)
	}

	// 5) Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 6) Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Infof("Received shutdown signal, stopping import worker...")

		importWorker.Stop()

		logger.Infof("Application shutdown complete")
		os.Exit(0)
	}()

	// 7) Run
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	logger.Infof("Starting server at port %s", port)
	router.Run("0.0.0.0:" + port)
}
