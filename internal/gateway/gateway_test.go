package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
)

// fakeExchange records CreateOrder calls and serves a fixed filter set.
type fakeExchange struct {
	filters map[string]exchange.InstrumentFilter
	orders  []exchange.OrderRequest
	fail    error
}

func (f *fakeExchange) Symbols(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(f.filters))
	for s := range f.filters {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeExchange) Filter(ctx context.Context, symbol string) (*exchange.InstrumentFilter, error) {
	flt, ok := f.filters[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", exchange.ErrUnknownSymbol, symbol)
	}
	return &flt, nil
}

func (f *fakeExchange) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return decimal.RequireFromString("100"), nil
}

func (f *fakeExchange) CreateOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error) {
	f.orders = append(f.orders, req)
	if f.fail != nil {
		return nil, f.fail
	}
	return &exchange.OrderResult{
		OrderID:     int64(1000 + len(f.orders)),
		Symbol:      req.Symbol,
		Side:        string(req.Side),
		Type:        string(req.Type),
		Status:      "NEW",
		ExecutedQty: "0",
	}, nil
}

func btcFilter() exchange.InstrumentFilter {
	return exchange.InstrumentFilter{
		Symbol:      "BTCUSDT",
		TickSize:    decimal.RequireFromString("0.10"),
		MinPrice:    decimal.RequireFromString("0.10"),
		MaxPrice:    decimal.RequireFromString("1000000"),
		StepSize:    decimal.RequireFromString("0.001"),
		MinQty:      decimal.RequireFromString("0.001"),
		MaxQty:      decimal.RequireFromString("1000"),
		MinNotional: decimal.RequireFromString("100"),
	}
}

func newTestGateway(fail error) (*Gateway, *fakeExchange) {
	ex := &fakeExchange{
		filters: map[string]exchange.InstrumentFilter{"BTCUSDT": btcFilter()},
		fail:    fail,
	}
	return New(ex, zerolog.Nop()), ex
}

func TestSubmitOrderValidLimit(t *testing.T) {
	gw, ex := newTestGateway(nil)

	res, err := gw.SubmitOrder(context.Background(), exchange.OrderRequest{
		Symbol:   "btcusdt",
		Side:     exchange.SideBuy,
		Type:     exchange.OrderTypeLimit,
		Quantity: decimal.RequireFromString("0.010"),
		Price:    decimal.RequireFromString("30000.10"),
	})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if res.OrderID == 0 {
		t.Error("order id is zero")
	}
	if len(ex.orders) != 1 {
		t.Fatalf("CreateOrder calls = %d, want 1", len(ex.orders))
	}
	if ex.orders[0].Symbol != "BTCUSDT" {
		t.Errorf("symbol not uppercased: %q", ex.orders[0].Symbol)
	}
}

func TestSubmitOrderStepMisaligned(t *testing.T) {
	gw, ex := newTestGateway(nil)

	_, err := gw.SubmitOrder(context.Background(), exchange.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     exchange.SideBuy,
		Type:     exchange.OrderTypeMarket,
		Quantity: decimal.RequireFromString("0.0105"), // step is 0.001
	})

	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Filter != "LOT_SIZE" {
		t.Errorf("filter = %s, want LOT_SIZE", verr.Filter)
	}
	if len(ex.orders) != 0 {
		t.Errorf("CreateOrder calls = %d, want 0", len(ex.orders))
	}
}

func TestSubmitOrderTickMisaligned(t *testing.T) {
	gw, ex := newTestGateway(nil)

	_, err := gw.SubmitOrder(context.Background(), exchange.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     exchange.SideSell,
		Type:     exchange.OrderTypeLimit,
		Quantity: decimal.RequireFromString("0.010"),
		Price:    decimal.RequireFromString("30000.15"), // tick is 0.10
	})

	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Filter != "PRICE_FILTER" {
		t.Errorf("filter = %s, want PRICE_FILTER", verr.Filter)
	}
	if len(ex.orders) != 0 {
		t.Errorf("CreateOrder calls = %d, want 0", len(ex.orders))
	}
}

func TestSubmitOrderBelowMinNotional(t *testing.T) {
	gw, _ := newTestGateway(nil)

	// 0.001 * 30000 = 30 < min notional 100
	_, err := gw.SubmitOrder(context.Background(), exchange.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     exchange.SideBuy,
		Type:     exchange.OrderTypeLimit,
		Quantity: decimal.RequireFromString("0.001"),
		Price:    decimal.RequireFromString("30000.00"),
	})

	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Filter != "MIN_NOTIONAL" {
		t.Errorf("filter = %s, want MIN_NOTIONAL", verr.Filter)
	}
}

func TestSubmitOrderUnknownSymbol(t *testing.T) {
	gw, ex := newTestGateway(nil)

	_, err := gw.SubmitOrder(context.Background(), exchange.OrderRequest{
		Symbol:   "NOPEUSDT",
		Side:     exchange.SideBuy,
		Type:     exchange.OrderTypeMarket,
		Quantity: decimal.RequireFromString("1"),
	})

	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Filter != "SYMBOL" {
		t.Errorf("filter = %s, want SYMBOL", verr.Filter)
	}
	if len(ex.orders) != 0 {
		t.Errorf("CreateOrder calls = %d, want 0", len(ex.orders))
	}
}

func TestSubmitOrderRelaysUpstreamError(t *testing.T) {
	upstream := &exchange.UpstreamError{Service: "binance", Code: -2019, Message: "Margin is insufficient."}
	gw, _ := newTestGateway(upstream)

	_, err := gw.SubmitOrder(context.Background(), exchange.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     exchange.SideBuy,
		Type:     exchange.OrderTypeMarket,
		Quantity: decimal.RequireFromString("0.010"),
	})

	var uerr *exchange.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if uerr.Code != -2019 {
		t.Errorf("code = %d, want -2019", uerr.Code)
	}
}

func TestSubmitOrderStopPriceChecked(t *testing.T) {
	gw, _ := newTestGateway(nil)

	_, err := gw.SubmitOrder(context.Background(), exchange.OrderRequest{
		Symbol:    "BTCUSDT",
		Side:      exchange.SideSell,
		Type:      exchange.OrderTypeStopMarket,
		Quantity:  decimal.RequireFromString("0.010"),
		StopPrice: decimal.RequireFromString("29000.03"), // off tick
	})

	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Filter != "PRICE_FILTER" {
		t.Errorf("filter = %s, want PRICE_FILTER", verr.Filter)
	}
}
