package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/DarThunder/tienda-api/config"
	"github.com/DarThunder/tienda-api/internal/controller"
	circuitbreaker "github.com/DarThunder/tienda-api/internal/infrastructure/circuit-breaker"
	kafkaInfra "github.com/DarThunder/tienda-api/internal/infrastructure/message-queue/kafka"
	"github.com/DarThunder/tienda-api/internal/infrastructure/tracing"
	localmiddleware "github.com/DarThunder/tienda-api/internal/middleware"
	"github.com/DarThunder/tienda-api/internal/repository"
	"github.com/DarThunder/tienda-api/internal/scheduler"
	"github.com/DarThunder/tienda-api/internal/service"
	"github.com/DarThunder/tienda-api/pkg/errs"
	"github.com/DarThunder/tienda-api/pkg/response"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

type App struct {
	DB     *sqlx.DB
	Config *config.Config
	Server *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler

	if app.Config.TracingConfig.CollectorHost != "" {
		traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize tracing")
		} else {
			defer func() {
				if err := traceProvider.Shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("Failed to shutdown tracing")
				}
			}()

			tracer := traceProvider.Tracer("tienda-api")

			e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
					defer span.End()

					req := c.Request()
					c.SetRequest(req.WithContext(ctx))

					return next(c)
				}
			})
		}
	}

	// Used empty string so that metrics are not prefixed with the service name
	e.Use(echoprometheus.NewMiddleware(""))
	go func() {
		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.Use(localmiddleware.Logger)
	e.Use(localmiddleware.RequestTimeout(app.Config.RequestTimeout))

	var kafkaProducer *kafkago.Conn
	if app.Config.KafkaConfig.BrokerAddress != "" {
		var err error
		kafkaProducer, err = kafkaInfra.CreateKafkaProducer(app.Config)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to the broker")
		}
	}

	cb := circuitbreaker.CreateCircuitBreaker("tienda-api")

	isLoggedIn := localmiddleware.BearerAuth(app.Config.JWTSecret)

	g := e.Group("")

	userRepo := repository.CreateUserRepository(app.DB)
	userSvc := service.CreateUserService(userRepo, *app.Config)
	controller.CreateUserController(g, userSvc, isLoggedIn)

	productRepo := repository.CreateProductRepository(app.DB)
	productSvc := service.CreateProductService(productRepo, *app.Config, kafkaProducer, cb)
	controller.CreateProductController(g, productSvc)

	orderRepo := repository.CreateOrderRepository(app.DB)
	orderSvc := service.CreateOrderService(orderRepo, app.Config, kafkaProducer, cb)
	controller.CreateOrderController(g, orderSvc, isLoggedIn)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, http.StatusOK, "pong")
	})

	s, err := scheduler.StartLowStockMonitor(productSvc, app.Config.LowStockInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start the low stock monitor")
	}
	defer func() {
		if err := s.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown the scheduler")
		}
	}()

	app.Server = e

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}

// httpErrorHandler keeps the wire format uniform for requests that never
// reach a handler. Unknown routes and method mismatches both answer 404.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: errs.ErrNotFound.Error()})
		return
	}

	log.Error().Err(err).Str("component", "httpErrorHandler").Msg("")
	c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: errs.ErrInternalServer.Error()})
}
