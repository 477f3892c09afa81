package strategy

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
)

// Gateway is the order-submission surface strategies drive. Strategies only
// generate parameters; filter validation and forwarding stay in the gateway.
type Gateway interface {
	SubmitOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error)
}

// Executor runs strategy sequences against the gateway. Sequences are
// best-effort: a failed step is recorded and the remaining steps still
// execute. Cancellation is checked between steps, never mid-call.
type Executor struct {
	gw          Gateway
	log         zerolog.Logger
	timeInForce string
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewExecutor(gw Gateway, timeInForce string, log zerolog.Logger) *Executor {
	if timeInForce == "" {
		timeInForce = "GTC"
	}
	return &Executor{gw: gw, log: log, timeInForce: timeInForce, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TWAP issues p.Slices market orders of TotalQuantity/Slices each, spaced by
// p.Interval. A slice quantity that does not align with the instrument's
// step size is rejected per slice by the gateway, not adjusted here.
func (e *Executor) TWAP(ctx context.Context, p TWAPParams) (*Report, error) {
	if p.Slices <= 0 {
		return nil, &ParamError{Param: "slices", Message: "must be at least 1"}
	}
	if p.Interval <= 0 {
		return nil, &ParamError{Param: "interval", Message: "must be positive"}
	}
	if !p.TotalQuantity.IsPositive() {
		return nil, &ParamError{Param: "amount", Message: "must be positive"}
	}

	sliceQty := p.TotalQuantity.Div(decimal.NewFromInt(int64(p.Slices)))
	e.log.Info().
		Str("event", "twap_start").
		Str("symbol", p.Symbol).
		Int("slices", p.Slices).
		Str("slice_qty", sliceQty.String()).
		Dur("interval", p.Interval).
		Msg("starting TWAP sequence")

	rep := &Report{Strategy: "twap"}
	for i := 0; i < p.Slices; i++ {
		if i > 0 {
			if err := e.sleep(ctx, p.Interval); err != nil {
				rep.Canceled = true
				e.log.Warn().
					Str("event", "twap_canceled").
					Str("symbol", p.Symbol).
					Int("placed", rep.Placed).
					Int("remaining", p.Slices-i).
					Msg("TWAP canceled between slices")
				return rep, nil
			}
		}

		req := exchange.OrderRequest{
			Symbol:   p.Symbol,
			Side:     p.Side,
			Type:     exchange.OrderTypeMarket,
			Quantity: sliceQty,
		}
		res, err := e.gw.SubmitOrder(ctx, req)
		rep.add(req, res, err)
		if err != nil {
			// Best-effort: the remaining slices still run.
			e.log.Warn().
				Str("event", "twap_slice_failed").
				Str("symbol", p.Symbol).
				Int("slice", i+1).
				Err(err).
				Msg("TWAP slice failed, continuing")
		}
	}

	e.log.Info().
		Str("event", "twap_done").
		Str("symbol", p.Symbol).
		Int("placed", rep.Placed).
		Int("failed", rep.Failed).
		Msg("TWAP sequence finished")
	return rep, nil
}

// Grid places one GTC limit order per ladder level. The ladder is
// lower + i*(upper-lower)/(levels-1); levels priced below the midpoint buy,
// levels at or above it sell.
func (e *Executor) Grid(ctx context.Context, p GridParams) (*Report, error) {
	if p.Levels <= 1 {
		return nil, &ParamError{Param: "num_levels", Message: "must be greater than 1"}
	}
	if !p.QuantityPerLevel.IsPositive() {
		return nil, &ParamError{Param: "amount", Message: "must be positive"}
	}
	if !p.LowerBound.IsPositive() || p.UpperBound.Cmp(p.LowerBound) <= 0 {
		return nil, &ParamError{Param: "bounds", Message: "upper bound must exceed a positive lower bound"}
	}

	step := p.UpperBound.Sub(p.LowerBound).Div(decimal.NewFromInt(int64(p.Levels - 1)))
	mid := p.LowerBound.Add(p.UpperBound).Div(decimal.NewFromInt(2))

	e.log.Info().
		Str("event", "grid_start").
		Str("symbol", p.Symbol).
		Int("levels", p.Levels).
		Str("lower", p.LowerBound.String()).
		Str("upper", p.UpperBound.String()).
		Msg("placing grid ladder")

	rep := &Report{Strategy: "grid"}
	for i := 0; i < p.Levels; i++ {
		if err := ctx.Err(); err != nil {
			rep.Canceled = true
			return rep, nil
		}

		price := p.LowerBound.Add(step.Mul(decimal.NewFromInt(int64(i))))
		side := exchange.SideSell
		if price.Cmp(mid) < 0 {
			side = exchange.SideBuy
		}

		req := exchange.OrderRequest{
			Symbol:      p.Symbol,
			Side:        side,
			Type:        exchange.OrderTypeLimit,
			Quantity:    p.QuantityPerLevel,
			Price:       price,
			TimeInForce: e.timeInForce,
		}
		res, err := e.gw.SubmitOrder(ctx, req)
		rep.add(req, res, err)
	}

	e.log.Info().
		Str("event", "grid_done").
		Str("symbol", p.Symbol).
		Int("placed", rep.Placed).
		Int("failed", rep.Failed).
		Msg("grid ladder placed")
	return rep, nil
}

// OCO submits a take-profit and a stop-loss exit pair. Both are conditional
// market orders on the opposite side of the entry; the exchange owns the
// triggers. A failed leg does not cancel the other.
func (e *Executor) OCO(ctx context.Context, p OCOParams) (*Report, error) {
	if !p.Quantity.IsPositive() {
		return nil, &ParamError{Param: "amount", Message: "must be positive"}
	}
	if !p.TakeProfit.IsPositive() || !p.StopLoss.IsPositive() {
		return nil, &ParamError{Param: "tp/sl", Message: "take-profit and stop-loss prices must be positive"}
	}

	exit := p.Side.Opposite()
	legs := []exchange.OrderRequest{
		{
			Symbol:    p.Symbol,
			Side:      exit,
			Type:      exchange.OrderTypeTakeProfitMarket,
			Quantity:  p.Quantity,
			StopPrice: p.TakeProfit,
		},
		{
			Symbol:    p.Symbol,
			Side:      exit,
			Type:      exchange.OrderTypeStopMarket,
			Quantity:  p.Quantity,
			StopPrice: p.StopLoss,
		},
	}

	rep := &Report{Strategy: "oco"}
	for _, req := range legs {
		res, err := e.gw.SubmitOrder(ctx, req)
		rep.add(req, res, err)
	}

	e.log.Info().
		Str("event", "oco_done").
		Str("symbol", p.Symbol).
		Int("placed", rep.Placed).
		Int("failed", rep.Failed).
		Msg("OCO pair submitted")
	return rep, nil
}

// StopLimit forwards a single STOP order carrying both the trigger and the
// limit price.
func (e *Executor) StopLimit(ctx context.Context, p StopLimitParams) (*exchange.OrderResult, error) {
	if !p.Quantity.IsPositive() {
		return nil, &ParamError{Param: "amount", Message: "must be positive"}
	}
	return e.gw.SubmitOrder(ctx, exchange.OrderRequest{
		Symbol:      p.Symbol,
		Side:        p.Side,
		Type:        exchange.OrderTypeStopLimit,
		Quantity:    p.Quantity,
		Price:       p.LimitPrice,
		StopPrice:   p.StopPrice,
		TimeInForce: e.timeInForce,
	})
}
