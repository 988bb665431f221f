package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
)

// InstrumentResponse is the JSON shape of an active instrument.
type InstrumentResponse struct {
	ISIN        string `json:"isin"`
	Description string `json:"description"`
	AddedAt     string `json:"addedAt"`
}

// InstrumentHandler lists active instruments.
type InstrumentHandler struct {
	usecase instrument.Usecase
	logger  logger.Interface
}

// NewInstrumentHandler creates a new InstrumentHandler.
func NewInstrumentHandler(usecase instrument.Usecase, logger logger.Interface) *InstrumentHandler {
	return &InstrumentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// ListInstruments handles GET /instruments.
func (h *InstrumentHandler) ListInstruments(c *gin.Context) {
	ctx := c.Request.Context()

	instruments, err := h.usecase.ListActive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "list_instruments"})
		c.JSON(http.StatusInternalServerError, ErrorResponse{Reason: errors.CodeOf(err).String()})
		return
	}

	out := make([]InstrumentResponse, 0, len(instruments))
	for _, inst := range instruments {
		out = append(out, InstrumentResponse{
			ISIN:        inst.ISIN,
			Description: inst.Description,
			AddedAt:     inst.AddedAt.UTC().Format(TimestampLayout),
		})
	}
	c.JSON(http.StatusOK, out)
}
