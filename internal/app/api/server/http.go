package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hyosobang/passgate/docs"
	"github.com/hyosobang/passgate/internal/app/api/handlers"
	mw "github.com/hyosobang/passgate/internal/app/api/middleware"
	"github.com/hyosobang/passgate/internal/app/service/adminauth"
	"github.com/hyosobang/passgate/internal/app/service/ledger"
	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/internal/app/service/memberlog"
	"github.com/hyosobang/passgate/internal/app/service/redemption"
	"github.com/hyosobang/passgate/internal/app/service/statistics"
	"github.com/hyosobang/passgate/internal/app/service/ticket"
	cfgpkg "github.com/hyosobang/passgate/pkg/config"
	metrics "github.com/hyosobang/passgate/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request logger & access log are attached per group in registerRoutes.
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	auth *adminauth.Service,
	members *member.Service,
	lg *ledger.Service,
	redeemer *redemption.Service,
	tickets *ticket.Service,
	logs *memberlog.Service,
	stats *statistics.Service,
) {
	// Prometheus metrics on a side listener
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			Subsystem: "passgate",
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Kiosk-facing APIs
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterEntryRoutes(apiV1, redeemer)
	handlers.RegisterMemberRoutes(apiV1, members)
	handlers.RegisterPurchaseRoutes(apiV1, members, cfg)
	handlers.RegisterTicketRoutes(apiV1, tickets)

	// Admin surface: login is public, everything else requires a session
	admin := apiV1.Group("/admin")
	admin.POST("/login", handlers.ApiAdminLogin(auth))
	protected := admin.Group("/")
	protected.Use(mw.AdminAuthMiddleware(auth))
	handlers.RegisterAdminRoutes(protected, members, lg, redeemer, logs, stats)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
