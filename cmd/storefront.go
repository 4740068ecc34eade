package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/chocoblitz/storefront/internal/catalog"
	"github.com/chocoblitz/storefront/internal/client"
	"github.com/chocoblitz/storefront/internal/common/constants"
	"github.com/chocoblitz/storefront/internal/common/validate"
	"github.com/chocoblitz/storefront/internal/config"
	"github.com/chocoblitz/storefront/internal/controller"
	inErrors "github.com/chocoblitz/storefront/internal/errors"
	"github.com/chocoblitz/storefront/internal/infra"
	"github.com/chocoblitz/storefront/internal/log"
	"github.com/chocoblitz/storefront/internal/metrics"
	"github.com/chocoblitz/storefront/internal/middleware"
	"github.com/chocoblitz/storefront/internal/otel"
	"github.com/chocoblitz/storefront/internal/service"
	"github.com/chocoblitz/storefront/internal/store"
)

func RunStorefrontService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunStorefrontService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_STOREFRONT).
		Str(log.KeyTag, "main RunStorefrontService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_STOREFRONT)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_STOREFRONT, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		err = otel.ShutdownOtel(c, otelShutdowns)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down cache").Logger()
		logger.Info().Msg("shutting down cache")
		err = cache.Close()
		if err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "loading catalog").Logger()
	logger.Info().Msg("loading catalog")
	c = logger.WithContext(c)
	productCatalog, err := catalog.Load(c, cfg.Storefront.CatalogPath)
	if err != nil {
		err = fmt.Errorf("failed loading catalog with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msgf("loaded catalog with %d products", productCatalog.Len())

	logger = logger.With().Str(log.KeyProcess, "initializing cart service").Logger()
	logger.Info().Msg("initializing cart service")
	kv := store.NewRedisStore(cache)
	cartService := service.NewCartService(productCatalog, kv)
	cartService.OnChange(func(items []service.CartItem, count int) {
		metrics.CartItemCount.Set(float64(count))
	})
	c = logger.WithContext(c)
	if err := cartService.Hydrate(c); err != nil {
		err = fmt.Errorf("failed hydrating cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("initialized cart service")

	logger = logger.With().Str(log.KeyProcess, "initializing session service").Logger()
	logger.Info().Msg("initializing session service")
	requestValidator := validate.New()
	authClient := client.NewAuthClient(cfg.AuthApi)
	sessionService := service.NewSessionService(
		kv,
		authClient,
		cartService,
		requestValidator,
		cfg.Storefront.ClearCartOnLogout,
	)
	logger.Info().Msg("initialized session service")

	logger = logger.With().Str(log.KeyProcess, "initializing review service").Logger()
	logger.Info().Msg("initializing review service")
	reviewService := service.NewReviewService(requestValidator)
	logger.Info().Msg("initialized review service")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.APP_STOREFRONT),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	controller.AttachProductController(router, productCatalog)
	controller.AttachAuthController(router, sessionService)
	controller.AttachReviewController(router, reviewService)

	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.RequireSession(sessionService))
	controller.AttachCartController(protected, cartService, requestValidator)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)

		logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())

			c = logger.WithContext(c)
			if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	err = httpServer.Shutdown(c)
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
