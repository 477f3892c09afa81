package exchange

import "github.com/shopspring/decimal"

// Side denotes order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the exit side for a position opened with s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType denotes the order types the gateway forwards.
type OrderType string

const (
	OrderTypeMarket           OrderType = "MARKET"
	OrderTypeLimit            OrderType = "LIMIT"
	OrderTypeStopLimit        OrderType = "STOP"
	OrderTypeStopMarket       OrderType = "STOP_MARKET"
	OrderTypeTakeProfitMarket OrderType = "TAKE_PROFIT_MARKET"
)

// OrderRequest captures an order intent to be sent to the exchange.
// It is immutable once submitted; quantities and prices are decimals so
// step/tick alignment checks are exact.
type OrderRequest struct {
	Symbol      string          `json:"symbol"`
	Side        Side            `json:"side"`
	Type        OrderType       `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price,omitempty"`      // LIMIT and STOP
	StopPrice   decimal.Decimal `json:"stop_price,omitempty"` // STOP / STOP_MARKET / TAKE_PROFIT_MARKET
	TimeInForce string          `json:"time_in_force,omitempty"`
	ClientID    string          `json:"client_id,omitempty"`
	ReduceOnly  bool            `json:"reduce_only,omitempty"`
}

// NeedsPrice reports whether the order type carries a limit price.
func (r OrderRequest) NeedsPrice() bool {
	return r.Type == OrderTypeLimit || r.Type == OrderTypeStopLimit
}

// NeedsStopPrice reports whether the order type carries a trigger price.
func (r OrderRequest) NeedsStopPrice() bool {
	switch r.Type {
	case OrderTypeStopLimit, OrderTypeStopMarket, OrderTypeTakeProfitMarket:
		return true
	}
	return false
}

// OrderResult is the exchange ack, relayed verbatim. Price fields stay as
// the exchange's strings; this system does not own or normalize them.
type OrderResult struct {
	OrderID       int64  `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Price         string `json:"price"`
	AvgPrice      string `json:"avg_price"`
	ExecutedQty   string `json:"executed_qty"`
}

// InstrumentFilter is the per-symbol trading rule set published by the
// exchange (PRICE_FILTER, LOT_SIZE, MIN_NOTIONAL).
type InstrumentFilter struct {
	Symbol      string
	TickSize    decimal.Decimal
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	StepSize    decimal.Decimal
	MinQty      decimal.Decimal
	MaxQty      decimal.Decimal
	MinNotional decimal.Decimal
}
