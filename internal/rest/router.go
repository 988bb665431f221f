package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	RateLimit float64
	RateBurst int
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter wires the handlers into a gin engine.
func NewRouter(candlesticks *CandlestickHandler, instruments *InstrumentHandler, log logger.Interface, opts RouterOptions) *gin.Engine {
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	limit := rate.Limit(opts.RateLimit)
	if opts.RateLimit <= 0 {
		limit = rate.Inf
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(log))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/", rateLimit(rate.NewLimiter(limit, max(opts.RateBurst, 1))))
	api.GET("/candlesticks", candlesticks.GetCandlesticks)
	api.GET("/instruments", instruments.ListInstruments)

	return r
}
