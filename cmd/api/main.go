package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tilo-app/tilo-api/internal/application/auth"
	"github.com/tilo-app/tilo-api/internal/application/inventory"
	"github.com/tilo-app/tilo-api/internal/application/pricing"
	"github.com/tilo-app/tilo-api/internal/application/usecase"
	"github.com/tilo-app/tilo-api/internal/domain/event"
	infrakafka "github.com/tilo-app/tilo-api/internal/infrastructure/kafka"
	"github.com/tilo-app/tilo-api/internal/infrastructure/postgres"
	httpRouter "github.com/tilo-app/tilo-api/internal/interfaces/http"
	"github.com/tilo-app/tilo-api/pkg/config"
	"github.com/tilo-app/tilo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Publisher de eventos de dominio: Kafka si hay brokers, no-op si no.
	var publisher event.Publisher = event.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := infrakafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicando eventos en Kafka")
	}

	outletRepo := postgres.NewOutletRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchLotRepository(pool)
	tierRepo := postgres.NewPriceTierRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	outletUC := usecase.NewOutletUseCase(outletRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	batchUC := inventory.NewBatchTrackingUseCase(
		txRunner, batchRepo, productRepo, outletRepo,
		publisher, log, cfg.Inventory.ExpiryWindowDays,
	)
	pricingUC := pricing.NewPriceTierUseCase(txRunner, tierRepo, productRepo)
	authUC := auth.NewAuthUseCase(userRepo, outletRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barrido diario de vencimientos, como goroutine propia.
	sweep := inventory.NewExpirySweep(batchRepo, publisher, log, cfg.Inventory.SweepHour)
	go sweep.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "TILO API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		OutletUC:  outletUC,
		UserUC:    userUC,
		BatchUC:   batchUC,
		PricingUC: pricingUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
