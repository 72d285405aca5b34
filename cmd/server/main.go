package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/airline-booking/internal/account"
	"github.com/iliyamo/airline-booking/internal/booking"
	"github.com/iliyamo/airline-booking/internal/config"
	"github.com/iliyamo/airline-booking/internal/database"
	"github.com/iliyamo/airline-booking/internal/handler"
	"github.com/iliyamo/airline-booking/internal/middleware"
	"github.com/iliyamo/airline-booking/internal/model"
	"github.com/iliyamo/airline-booking/internal/queue"
	"github.com/iliyamo/airline-booking/internal/repository"
	"github.com/iliyamo/airline-booking/internal/router"
	"github.com/iliyamo/airline-booking/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// nil when Redis is unreachable: the limiter falls back to memory and
	// the cache is skipped
	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	orders := repository.NewOrderRepo(db)
	flights := repository.NewFlightRepo(db)
	engine := booking.NewEngine(orders)
	remover := account.NewRemover(repository.NewAccountStore(db))

	bootstrapAdmin(ctx, users, cfg.BcryptCost)

	var events handler.OrderEvents
	if cfg.AMQPURL != "" {
		pub := service.NewPublisher(cfg.AMQPURL, cfg.OrderQueue)
		defer pub.Close()
		events = pub

		consumer := queue.Consumer{URL: cfg.AMQPURL, Queue: cfg.OrderQueue, LogPath: cfg.OrderLogPath}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("order consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("RABBITMQ_URL not set; order events disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, remover), cfg.JWTSecret)
	router.RegisterOrders(e, handler.NewOrderHandler(engine, orders, events), cfg.JWTSecret,
		middleware.NewTokenBucket(cfg.RateLimit, rdb))
	router.RegisterFlights(e, handler.NewFlightHandler(flights, engine), cfg.JWTSecret)
	router.RegisterCatalog(e, router.Catalog{
		Routes:    handler.NewRouteHandler(repository.NewRouteRepo(db)),
		Fleet:     handler.NewFleetHandler(repository.NewFleetRepo(db)),
		Locations: handler.NewLocationHandler(repository.NewLocationRepo(db)),
	}, cfg.JWTSecret, middleware.NewRedisCache(cfg.Cache, rdb))
	router.RegisterCrew(e, handler.NewCrewHandler(repository.NewCrewRepo(db)), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// bootstrapAdmin creates the ADMIN_EMAIL account on first start.  Admins
// cannot be created through the public API.
func bootstrapAdmin(ctx context.Context, users *repository.UserRepo, cost int) {
	email, pass := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")
	if email == "" || pass == "" {
		return
	}
	_, err := users.Create(ctx, repository.NewUser{Email: email, Password: pass, Role: model.RoleAdmin}, cost)
	switch {
	case err == nil:
		log.Printf("admin %s created", email)
	case errors.Is(err, repository.ErrEmailExists):
	default:
		log.Printf("admin bootstrap: %v", err)
	}
}

func logLevel(s string) glog.Lvl {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return glog.DEBUG
	case "WARN":
		return glog.WARN
	case "ERROR":
		return glog.ERROR
	case "OFF":
		return glog.OFF
	}
	return glog.INFO
}
