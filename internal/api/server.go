// Package api exposes the inbound HTTP surface consumed by the browser UI:
// market data lookups, strategy-dispatched order submission, and rationale
// generation. Responses mirror exchange responses plus validation messages.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
	"github.com/gownikranthi/Trading-Bot/internal/rationale"
	"github.com/gownikranthi/Trading-Bot/internal/strategy"
)

// Market is the read-only exchange surface the API serves to the UI.
type Market interface {
	Symbols(ctx context.Context) ([]string, error)
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// OrderGateway submits a single validated order.
type OrderGateway interface {
	SubmitOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error)
}

// StrategyExecutor runs multi-order strategy sequences.
type StrategyExecutor interface {
	TWAP(ctx context.Context, p strategy.TWAPParams) (*strategy.Report, error)
	Grid(ctx context.Context, p strategy.GridParams) (*strategy.Report, error)
	OCO(ctx context.Context, p strategy.OCOParams) (*strategy.Report, error)
	StopLimit(ctx context.Context, p strategy.StopLimitParams) (*exchange.OrderResult, error)
}

// Rationale generates trade rationale text.
type Rationale interface {
	Generate(ctx context.Context, tc rationale.TradeContext) (string, error)
}

// SystemMeta describes runtime status exposed to the UI.
type SystemMeta struct {
	Venue   string
	Testnet bool
	Symbols []string
	Model   string
	Version string
}

// Server wires the HTTP endpoints around the order gateway.
type Server struct {
	Router *gin.Engine

	market    Market
	gateway   OrderGateway
	exec      StrategyExecutor
	rationale Rationale
	log       zerolog.Logger
	meta      SystemMeta
}

func NewServer(market Market, gw OrderGateway, exec StrategyExecutor, gen Rationale, meta SystemMeta, log zerolog.Logger) *Server {
	r := gin.New()

	// Middleware stack (order matters).
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(RateLimit())
	r.Use(CORS())

	s := &Server{
		Router:    r,
		market:    market,
		gateway:   gw,
		exec:      exec,
		rationale: gen,
		log:       log,
		meta:      meta,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/ws/price", s.priceStream)

	api := s.Router.Group("/api/v1")
	{
		// Market data lookups get a short deadline; /trade does not, since
		// a TWAP sequence legitimately runs for its full duration and is
		// canceled through the request context instead.
		data := api.Group("")
		data.Use(Timeout(15 * time.Second))
		{
			data.GET("/assets", s.getAssets)
			data.GET("/price/:symbol", s.getPrice)
			data.GET("/system/status", s.getSystemStatus)
		}

		api.POST("/trade", s.postTrade)
		api.POST("/rationale", s.postRationale)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
