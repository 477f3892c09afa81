package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
)

// Exchange is the slice of the exchange client the gateway needs.
type Exchange interface {
	Symbols(ctx context.Context) ([]string, error)
	Filter(ctx context.Context, symbol string) (*exchange.InstrumentFilter, error)
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
	CreateOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error)
}

// Gateway validates orders against the exchange's published filters before
// forwarding them. It never adjusts an order: a request that does not align
// is rejected, not rounded.
type Gateway struct {
	ex  Exchange
	log zerolog.Logger
}

func New(ex Exchange, log zerolog.Logger) *Gateway {
	return &Gateway{ex: ex, log: log}
}

// SubmitOrder runs local validation and forwards the order. Every attempt
// is logged, including rejected and failed ones.
func (g *Gateway) SubmitOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))

	ev := g.log.Info().
		Str("event", "order_attempt").
		Str("symbol", req.Symbol).
		Str("side", string(req.Side)).
		Str("type", string(req.Type)).
		Str("quantity", req.Quantity.String())
	if req.NeedsPrice() {
		ev = ev.Str("price", req.Price.String())
	}
	if req.NeedsStopPrice() {
		ev = ev.Str("stop_price", req.StopPrice.String())
	}
	ev.Msg("submitting order")

	if err := g.validate(ctx, req); err != nil {
		g.log.Warn().
			Str("event", "order_rejected").
			Str("symbol", req.Symbol).
			Err(err).
			Msg("order rejected by local validation")
		return nil, err
	}

	res, err := g.ex.CreateOrder(ctx, req)
	if err != nil {
		g.log.Error().
			Str("event", "order_failed").
			Str("symbol", req.Symbol).
			Err(err).
			Msg("exchange rejected order")
		return nil, err
	}

	g.log.Info().
		Str("event", "order_placed").
		Str("symbol", res.Symbol).
		Int64("order_id", res.OrderID).
		Str("status", res.Status).
		Str("executed_qty", res.ExecutedQty).
		Msg("order placed")
	return res, nil
}

// validate checks the request against the symbol's filter set. The symbol
// lookup itself is a filter: an unknown or non-trading symbol fails SYMBOL.
func (g *Gateway) validate(ctx context.Context, req exchange.OrderRequest) error {
	if req.Side != exchange.SideBuy && req.Side != exchange.SideSell {
		return &exchange.ValidationError{
			Filter:  "SIDE",
			Message: fmt.Sprintf("side must be BUY or SELL, got %q", req.Side),
		}
	}

	f, err := g.ex.Filter(ctx, req.Symbol)
	if err != nil {
		if errors.Is(err, exchange.ErrUnknownSymbol) {
			return &exchange.ValidationError{
				Filter:  "SYMBOL",
				Message: fmt.Sprintf("symbol %s is not available for trading", req.Symbol),
			}
		}
		return err
	}

	if err := checkQuantity(f, req.Quantity); err != nil {
		return err
	}
	if req.NeedsPrice() {
		if err := checkPrice(f, req.Price); err != nil {
			return err
		}
		if err := checkNotional(f, req.Price, req.Quantity); err != nil {
			return err
		}
	}
	if req.NeedsStopPrice() {
		if err := checkPrice(f, req.StopPrice); err != nil {
			return err
		}
	}
	return nil
}
