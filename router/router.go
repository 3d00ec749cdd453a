package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"

	_ "nftmarket/docs"
	"nftmarket/log"
	"nftmarket/middleware"
	"nftmarket/monitor"
	"nftmarket/router/api"
	"nftmarket/service"
)

// Options tunes the engine. RateLimit and RateBurst size every token
// bucket. Each request draws a token from its client ip's bucket before
// authentication, and a signed request then draws a second one from its
// caller's bucket, so one caller cannot spread its load over many ips.
type Options struct {
	AuthWindow time.Duration // accepted clock skew of signed requests
	RateLimit  float64       // requests per second per bucket
	RateBurst  int
}

// New builds the engine serving market. Idle rate limiters are dropped until
// ctx is done.
func New(ctx context.Context, market *service.Market, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	// Allow cross-domain access, and those with nginx and other proxies can be closed
	r.Use(middleware.Cors())

	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst)
	limiter.StartCleanup(time.Minute, ctx.Done())
	r.Use(limiter.Handler())
	signed := []gin.HandlerFunc{middleware.Auth(opts.AuthWindow, market.Now), limiter.Handler()}

	// Set up accessible routes
	h := api.NewHandler(market)
	api.Listing(r, h, signed...)
	api.Auction(r, h, signed...)
	api.Sale(r, h)
	api.Loyalty(r, h)
	api.Wallet(r, h, signed...)
	api.Events(r, h)
	r.GET("/metrics", gin.WrapH(monitor.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
