package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"assettrack/pkg/assets"
	"assettrack/pkg/categories"
	"assettrack/pkg/db"
	"assettrack/pkg/employees"
	"assettrack/pkg/events"
	"assettrack/pkg/notify"
)

// @title           AssetTrack API
// @version         1.0
// @description     REST API for asset lifecycle tracking - categories, employees and an issue/return/scrap ledger

// @BasePath  /

// @schemes   http https

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	pool := db.Connect()
	defer pool.Close()

	var notifier assets.Notifier
	if os.Getenv("SENDGRID_API_KEY") != "" {
		notifier = notify.NewEmailNotifier()
	} else {
		log.Println("SENDGRID_API_KEY not set, email notifications disabled")
	}

	feedManager := events.NewManager()
	feedHandler := events.NewHandler(feedManager)

	categoriesRepo := categories.NewPostgresCategoryRepository(pool)
	categoriesService := categories.NewCategoryService(categoriesRepo)
	categoriesHandler := categories.NewCategoryHandler(categoriesService)

	employeesRepo := employees.NewPostgresEmployeeRepository(pool)
	employeesService := employees.NewEmployeeService(employeesRepo)
	employeesHandler := employees.NewEmployeeHandler(employeesService)

	assetsRepo := assets.NewPostgresAssetRepository(pool)
	assetsService := assets.NewAssetService(assetsRepo, employeesRepo, feedManager, notifier)
	assetsHandler := assets.NewAssetHandler(assetsService)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS configuration
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins == "" {
		origins = []string{"*"}
	} else {
		parts := strings.Split(allowedOrigins, ",")
		origins = make([]string, 0, len(parts))
		for _, p := range parts {
			o := strings.TrimSpace(p)
			if o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			origins = []string{"*"}
		}
	}

	allowCreds := strings.EqualFold(os.Getenv("CORS_ALLOW_CREDENTIALS"), "true")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCreds,
		MaxAge:           12 * time.Hour,
	}))

	categoriesHandler.RegisterRoutes(router)
	employeesHandler.RegisterRoutes(router)
	assetsHandler.RegisterRoutes(router)

	// Live feed of committed ledger entries
	router.GET("/ws/events", feedHandler.HandleFeedGin)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
