// Package strategy turns high-level strategy parameters (TWAP, Grid, OCO,
// Stop-Limit) into sequences of conventional orders driven through the order
// gateway. Strategies hold no state beyond the loop position; the exchange
// owns all execution guarantees.
package strategy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
)

// ParamError reports an invalid strategy parameter. It is raised before any
// order is issued.
type ParamError struct {
	Param   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

// TWAPParams splits TotalQuantity into Slices equal market orders spaced by
// Interval.
type TWAPParams struct {
	Symbol        string
	Side          exchange.Side
	TotalQuantity decimal.Decimal
	Slices        int
	Interval      time.Duration
}

// GridParams places one limit order per level on a ladder between LowerBound
// and UpperBound. Levels below the midpoint buy, the rest sell.
type GridParams struct {
	Symbol           string
	QuantityPerLevel decimal.Decimal
	LowerBound       decimal.Decimal
	UpperBound       decimal.Decimal
	Levels           int
}

// OCOParams describes a take-profit / stop-loss pair exiting a position
// opened with Side. USDT-M futures has no native OCO endpoint; the two
// conditional orders are submitted independently and the exchange owns the
// trigger logic.
type OCOParams struct {
	Symbol     string
	Side       exchange.Side // entry side; both exit orders take the opposite
	Quantity   decimal.Decimal
	TakeProfit decimal.Decimal
	StopLoss   decimal.Decimal
}

// StopLimitParams is a single conditional limit order: the limit order at
// LimitPrice is armed once StopPrice trades.
type StopLimitParams struct {
	Symbol     string
	Side       exchange.Side
	Quantity   decimal.Decimal
	StopPrice  decimal.Decimal
	LimitPrice decimal.Decimal
}

// Outcome is the result of one order in a strategy sequence. Exactly one of
// Result and Error is set.
type Outcome struct {
	Index   int                   `json:"index"`
	Request exchange.OrderRequest `json:"request"`
	Result  *exchange.OrderResult `json:"result,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Report summarizes a multi-order strategy run. A canceled run is a partial
// execution, not an error: the outcomes placed before cancellation stand.
type Report struct {
	Strategy string    `json:"strategy"`
	Orders   []Outcome `json:"orders"`
	Placed   int       `json:"placed"`
	Failed   int       `json:"failed"`
	Canceled bool      `json:"canceled,omitempty"`
}

func (r *Report) add(req exchange.OrderRequest, res *exchange.OrderResult, err error) {
	o := Outcome{Index: len(r.Orders), Request: req, Result: res}
	if err != nil {
		o.Error = err.Error()
		r.Failed++
	} else {
		r.Placed++
	}
	r.Orders = append(r.Orders, o)
}
