package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick"
	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
)

// TimestampLayout is the wire format of candle timestamps, always UTC.
const TimestampLayout = "2006-01-02T15:04:05Z"

// CandleResponse is the JSON shape of one candle.
type CandleResponse struct {
	OpenTimestamp  string  `json:"openTimestamp"`
	CloseTimestamp string  `json:"closeTimestamp"`
	OpenPrice      float64 `json:"openPrice"`
	HighPrice      float64 `json:"highPrice"`
	LowPrice       float64 `json:"lowPrice"`
	ClosingPrice   float64 `json:"closingPrice"`
}

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Reason string `json:"reason"`
}

// NewCandleResponse converts a domain candle for the wire.
func NewCandleResponse(c v1.Candle) CandleResponse {
	return CandleResponse{
		OpenTimestamp:  c.OpenTimestamp.UTC().Format(TimestampLayout),
		CloseTimestamp: c.CloseTimestamp.UTC().Format(TimestampLayout),
		OpenPrice:      c.OpenPrice,
		HighPrice:      c.HighPrice,
		LowPrice:       c.LowPrice,
		ClosingPrice:   c.ClosingPrice,
	}
}

// CandlestickHandler serves candlestick queries.
type CandlestickHandler struct {
	usecase candlestick.Usecase
	logger  logger.Interface
}

// NewCandlestickHandler creates a new CandlestickHandler.
func NewCandlestickHandler(usecase candlestick.Usecase, logger logger.Interface) *CandlestickHandler {
	return &CandlestickHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetCandlesticks handles GET /candlesticks?isin=<ISIN>[&asOf=<RFC3339>].
func (h *CandlestickHandler) GetCandlesticks(c *gin.Context) {
	ctx := c.Request.Context()

	isin := c.Query("isin")
	if isin == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Reason: errors.MissingISIN.String()})
		return
	}

	var asOf time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Reason: errors.InvalidAsOf.String()})
			return
		}
		asOf = parsed
	}

	candles, err := h.usecase.GetCandlesticks(ctx, isin, asOf)
	if err != nil {
		code := errors.CodeOf(err)
		status := http.StatusInternalServerError
		if code == errors.InvalidISIN {
			status = http.StatusBadRequest
		}
		h.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "get_candlesticks"},
			logger.Field{Key: "isin", Value: isin},
		)
		c.JSON(status, ErrorResponse{Reason: code.String()})
		return
	}

	out := make([]CandleResponse, 0, len(candles))
	for _, candle := range candles {
		out = append(out, NewCandleResponse(candle))
	}
	c.JSON(http.StatusOK, out)
}
