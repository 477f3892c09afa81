package exchange

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol is returned when a symbol is not in the exchange's
// published symbol list.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Config holds Binance USDT-M futures credentials and client settings.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	InfoTTL   time.Duration // exchange-info cache lifetime
}

// Binance wraps the official USDT-M futures client. Exchange info (symbol
// list + instrument filters) is cached with a short TTL so strategy loops
// do not refetch metadata per slice.
type Binance struct {
	client  *futures.Client
	infoTTL time.Duration

	mu        sync.RWMutex
	filters   map[string]InstrumentFilter
	symbols   []string
	fetchedAt time.Time
}

// NewBinance builds the futures client; Testnet switches the base URL to
// the Binance Futures Testnet.
func NewBinance(cfg Config) *Binance {
	futures.UseTestnet = cfg.Testnet
	if cfg.InfoTTL <= 0 {
		cfg.InfoTTL = 30 * time.Second
	}
	return &Binance{
		client:  futures.NewClient(cfg.APIKey, cfg.APISecret),
		infoTTL: cfg.InfoTTL,
		filters: make(map[string]InstrumentFilter),
	}
}

// VerifyCredentials makes one authenticated call so bad keys fail the
// process at startup instead of at the first order submission.
func (b *Binance) VerifyCredentials(ctx context.Context) error {
	if _, err := b.client.NewGetBalanceService().Do(ctx); err != nil {
		return b.wrap(err)
	}
	return nil
}

// Symbols returns all symbols currently open for trading.
func (b *Binance) Symbols(ctx context.Context) ([]string, error) {
	if err := b.ensureInfo(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.symbols))
	copy(out, b.symbols)
	return out, nil
}

// Filter returns the instrument filter for a symbol, or ErrUnknownSymbol.
func (b *Binance) Filter(ctx context.Context, symbol string) (*InstrumentFilter, error) {
	if err := b.ensureInfo(ctx); err != nil {
		return nil, err
	}
	b.mu.RLock()
	f, ok := b.filters[symbol]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return &f, nil
}

// Price returns the latest traded price for a symbol.
func (b *Binance) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, b.wrap(err)
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	p, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price for %s: %w", symbol, err)
	}
	return p, nil
}

// CreateOrder submits an order and relays the exchange ack verbatim.
func (b *Binance) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	svc := b.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(futures.SideType(req.Side)).
		Type(futures.OrderType(req.Type)).
		Quantity(req.Quantity.String())

	if req.NeedsPrice() {
		svc = svc.Price(req.Price.String())
		tif := req.TimeInForce
		if tif == "" {
			tif = string(futures.TimeInForceTypeGTC)
		}
		svc = svc.TimeInForce(futures.TimeInForceType(tif))
	}
	if req.NeedsStopPrice() {
		svc = svc.StopPrice(req.StopPrice.String())
	}
	if req.ClientID != "" {
		svc = svc.NewClientOrderID(req.ClientID)
	}
	if req.ReduceOnly {
		svc = svc.ReduceOnly(true)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, b.wrap(err)
	}
	return &OrderResult{
		OrderID:       res.OrderID,
		ClientOrderID: res.ClientOrderID,
		Symbol:        res.Symbol,
		Side:          string(res.Side),
		Type:          string(res.Type),
		Status:        string(res.Status),
		Price:         res.Price,
		AvgPrice:      res.AvgPrice,
		ExecutedQty:   res.ExecutedQuantity,
	}, nil
}

func (b *Binance) ensureInfo(ctx context.Context) error {
	b.mu.RLock()
	fresh := time.Since(b.fetchedAt) < b.infoTTL && len(b.filters) > 0
	b.mu.RUnlock()
	if fresh {
		return nil
	}
	return b.refreshInfo(ctx)
}

func (b *Binance) refreshInfo(ctx context.Context) error {
	info, err := b.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return b.wrap(err)
	}

	filters := make(map[string]InstrumentFilter, len(info.Symbols))
	symbols := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != "TRADING" {
			continue
		}
		symbols = append(symbols, s.Symbol)
		filters[s.Symbol] = parseFilters(s.Symbol, s.Filters)
	}

	b.mu.Lock()
	b.filters = filters
	b.symbols = symbols
	b.fetchedAt = time.Now()
	b.mu.Unlock()
	return nil
}

// parseFilters extracts PRICE_FILTER, LOT_SIZE and MIN_NOTIONAL from the
// raw filter maps the exchange publishes per symbol.
func parseFilters(symbol string, raw []map[string]interface{}) InstrumentFilter {
	f := InstrumentFilter{Symbol: symbol}
	for _, m := range raw {
		switch m["filterType"] {
		case "PRICE_FILTER":
			f.TickSize = decVal(m, "tickSize")
			f.MinPrice = decVal(m, "minPrice")
			f.MaxPrice = decVal(m, "maxPrice")
		case "LOT_SIZE":
			f.StepSize = decVal(m, "stepSize")
			f.MinQty = decVal(m, "minQty")
			f.MaxQty = decVal(m, "maxQty")
		case "MIN_NOTIONAL":
			// futures exchange info uses "notional"
			f.MinNotional = decVal(m, "notional")
			if f.MinNotional.IsZero() {
				f.MinNotional = decVal(m, "minNotional")
			}
		}
	}
	return f
}

func decVal(m map[string]interface{}, key string) decimal.Decimal {
	s, ok := m[key].(string)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// wrap converts go-binance API errors into UpstreamError so the original
// exchange code/message can be relayed to the UI unmodified.
func (b *Binance) wrap(err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{
			Service: "binance",
			Code:    apiErr.Code,
			Message: apiErr.Message,
		}
	}
	return err
}
