package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ekoseller/eko-seller-api/internal/config"
	"github.com/ekoseller/eko-seller-api/internal/database"
	"github.com/ekoseller/eko-seller-api/internal/handler"
	"github.com/ekoseller/eko-seller-api/internal/middleware"
	"github.com/ekoseller/eko-seller-api/internal/repository"
	"github.com/ekoseller/eko-seller-api/internal/router"
	"github.com/ekoseller/eko-seller-api/internal/service"
	"github.com/ekoseller/eko-seller-api/internal/upload"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}

	users := repository.NewUserRepo(db)
	otps := repository.NewOTPRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db, categories)
	orders := repository.NewOrderRepo(db, products, users)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("user indexes: %v", err)
	}
	if err := otps.EnsureIndexes(ctx); err != nil {
		log.Fatalf("otp indexes: %v", err)
	}
	cancel()

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	mailer := service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)

	// Redis backs the OTP rate limiter and the read cache; both fail
	// open when it is unavailable.
	rdb := config.NewRedisClient()
	var resendLimiter, cache echo.MiddlewareFunc
	if rlCfg := config.LoadOTPRateLimitConfig(); rlCfg.Enabled {
		resendLimiter = middleware.NewOTPRateLimiter(rlCfg, rdb)
	}
	if cCfg := config.LoadCacheConfig(); cCfg.Enabled && rdb != nil {
		cache = middleware.NewRedisCache(cCfg, rdb)
	}

	auth := handler.NewAuthHandler(cfg, users, otps, mailer)
	userH := handler.NewUserHandler(users)
	categoryH := handler.NewCategoryHandler(categories)
	productH := handler.NewProductHandler(products, categories, uploads)
	orderH := handler.NewOrderHandler(orders, products)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, uploads.Dir())
	router.RegisterUsers(e, cfg.APIPrefix, auth, userH, cfg.JWTSecret, resendLimiter)
	router.RegisterProducts(e, cfg.APIPrefix, productH, cfg.JWTSecret, cache)
	router.RegisterCategories(e, cfg.APIPrefix, categoryH, cfg.JWTSecret, cache)
	router.RegisterOrders(e, cfg.APIPrefix, orderH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
