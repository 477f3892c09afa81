package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
	"github.com/gownikranthi/Trading-Bot/internal/rationale"
	"github.com/gownikranthi/Trading-Bot/internal/strategy"
)

// tradeRequest is the unified /trade payload; strategy selects which of the
// optional fields apply.
type tradeRequest struct {
	Strategy    string          `json:"strategy" binding:"required"`
	Symbol      string          `json:"symbol" binding:"required"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	TimeInForce string          `json:"time_in_force"`

	// TWAP
	Duration int `json:"duration"` // total duration in minutes
	Interval int `json:"interval"` // seconds between slices

	// OCO
	TakeProfit decimal.Decimal `json:"tp"`
	StopLoss   decimal.Decimal `json:"sl"`

	// Grid
	LowerBound decimal.Decimal `json:"lower_bound"`
	UpperBound decimal.Decimal `json:"upper_bound"`
	NumLevels  int             `json:"num_levels"`

	// Stop-limit
	StopPrice  decimal.Decimal `json:"stop_price"`
	LimitPrice decimal.Decimal `json:"limit_price"`
}

type rationaleRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Side   string `json:"side" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"status": "error", "message": msg})
}

// tradeError maps the two error kinds onto HTTP statuses: local pre-flight
// rejections are the client's fault, upstream rejections are relayed as a
// bad gateway with the exchange's own code and message.
func (s *Server) tradeError(c *gin.Context, err error) {
	var verr *exchange.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"filter":  verr.Filter,
			"message": verr.Message,
		})
		return
	}
	var perr *strategy.ParamError
	if errors.As(err, &perr) {
		respondError(c, http.StatusBadRequest, perr.Error())
		return
	}
	var uerr *exchange.UpstreamError
	if errors.As(err, &uerr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"status":  "error",
			"service": uerr.Service,
			"code":    uerr.Code,
			"message": uerr.Message,
		})
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

func (s *Server) getAssets(c *gin.Context) {
	symbols, err := s.market.Symbols(c.Request.Context())
	if err != nil {
		s.tradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbols": symbols})
}

func (s *Server) getPrice(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	price, err := s.market.Price(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, exchange.ErrUnknownSymbol) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("unknown symbol %s", symbol))
			return
		}
		s.tradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": price})
}

func (s *Server) getSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"venue":   s.meta.Venue,
		"testnet": s.meta.Testnet,
		"symbols": s.meta.Symbols,
		"model":   s.meta.Model,
		"version": s.meta.Version,
	})
}

// postTrade dispatches the request to the matching strategy. Manual orders
// return the exchange ack directly; multi-order strategies return a
// per-order report.
func (s *Server) postTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	side := exchange.Side(strings.ToUpper(req.Side))

	switch strings.ToLower(req.Strategy) {
	case "manual":
		order := exchange.OrderRequest{
			Symbol:   req.Symbol,
			Side:     side,
			Type:     exchange.OrderTypeMarket,
			Quantity: req.Amount,
		}
		if req.Price.IsPositive() {
			order.Type = exchange.OrderTypeLimit
			order.Price = req.Price
			order.TimeInForce = req.TimeInForce
		}
		res, err := s.gateway.SubmitOrder(ctx, order)
		if err != nil {
			s.tradeError(c, err)
			return
		}
		s.respondPlaced(c, req.Symbol, res)

	case "twap":
		slices := 0
		if req.Interval > 0 {
			slices = req.Duration * 60 / req.Interval
		}
		rep, err := s.exec.TWAP(ctx, strategy.TWAPParams{
			Symbol:        req.Symbol,
			Side:          side,
			TotalQuantity: req.Amount,
			Slices:        slices,
			Interval:      time.Duration(req.Interval) * time.Second,
		})
		if err != nil {
			s.tradeError(c, err)
			return
		}
		s.respondReport(c, req.Symbol, rep)

	case "grid":
		rep, err := s.exec.Grid(ctx, strategy.GridParams{
			Symbol:           req.Symbol,
			QuantityPerLevel: req.Amount,
			LowerBound:       req.LowerBound,
			UpperBound:       req.UpperBound,
			Levels:           req.NumLevels,
		})
		if err != nil {
			s.tradeError(c, err)
			return
		}
		s.respondReport(c, req.Symbol, rep)

	case "oco":
		rep, err := s.exec.OCO(ctx, strategy.OCOParams{
			Symbol:     req.Symbol,
			Side:       side,
			Quantity:   req.Amount,
			TakeProfit: req.TakeProfit,
			StopLoss:   req.StopLoss,
		})
		if err != nil {
			s.tradeError(c, err)
			return
		}
		s.respondReport(c, req.Symbol, rep)

	case "stop-limit":
		res, err := s.exec.StopLimit(ctx, strategy.StopLimitParams{
			Symbol:     req.Symbol,
			Side:       side,
			Quantity:   req.Amount,
			StopPrice:  req.StopPrice,
			LimitPrice: req.LimitPrice,
		})
		if err != nil {
			s.tradeError(c, err)
			return
		}
		s.respondPlaced(c, req.Symbol, res)

	default:
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid strategy %q", req.Strategy))
	}
}

func (s *Server) respondPlaced(c *gin.Context, symbol string, res *exchange.OrderResult) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Order for %q placed successfully.", symbol),
		"details": res,
	})
}

func (s *Server) respondReport(c *gin.Context, symbol string, rep *strategy.Report) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("%s sequence for %q finished: %d placed, %d failed.", rep.Strategy, symbol, rep.Placed, rep.Failed),
		"details": rep,
	})
}

func (s *Server) postRationale(c *gin.Context) {
	var req rationaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	text, err := s.rationale.Generate(c.Request.Context(), rationale.TradeContext{
		Symbol: req.Symbol,
		Side:   req.Side,
		Amount: req.Amount,
	})
	if err != nil {
		s.tradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "rationale": text})
}
