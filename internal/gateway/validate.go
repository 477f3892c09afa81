package gateway

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gownikranthi/Trading-Bot/internal/exchange"
)

// checkQuantity enforces LOT_SIZE: bounds plus step alignment relative to
// the minimum, i.e. (qty - minQty) mod stepSize == 0.
func checkQuantity(f *exchange.InstrumentFilter, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return &exchange.ValidationError{
			Filter:  "LOT_SIZE",
			Message: fmt.Sprintf("quantity %s must be positive", qty),
		}
	}
	if qty.Cmp(f.MinQty) < 0 {
		return &exchange.ValidationError{
			Filter:  "LOT_SIZE",
			Message: fmt.Sprintf("quantity %s is below the minimum %s", qty, f.MinQty),
		}
	}
	if f.MaxQty.IsPositive() && qty.Cmp(f.MaxQty) > 0 {
		return &exchange.ValidationError{
			Filter:  "LOT_SIZE",
			Message: fmt.Sprintf("quantity %s exceeds the maximum %s", qty, f.MaxQty),
		}
	}
	if f.StepSize.IsPositive() && !qty.Sub(f.MinQty).Mod(f.StepSize).IsZero() {
		return &exchange.ValidationError{
			Filter:  "LOT_SIZE",
			Message: fmt.Sprintf("quantity %s does not align with step size %s", qty, f.StepSize),
		}
	}
	return nil
}

// checkPrice enforces PRICE_FILTER: bounds plus tick alignment relative to
// the minimum, i.e. (price - minPrice) mod tickSize == 0.
func checkPrice(f *exchange.InstrumentFilter, price decimal.Decimal) error {
	if !price.IsPositive() {
		return &exchange.ValidationError{
			Filter:  "PRICE_FILTER",
			Message: fmt.Sprintf("price %s must be positive", price),
		}
	}
	if price.Cmp(f.MinPrice) < 0 {
		return &exchange.ValidationError{
			Filter:  "PRICE_FILTER",
			Message: fmt.Sprintf("price %s is below the minimum %s", price, f.MinPrice),
		}
	}
	if f.MaxPrice.IsPositive() && price.Cmp(f.MaxPrice) > 0 {
		return &exchange.ValidationError{
			Filter:  "PRICE_FILTER",
			Message: fmt.Sprintf("price %s exceeds the maximum %s", price, f.MaxPrice),
		}
	}
	if f.TickSize.IsPositive() && !price.Sub(f.MinPrice).Mod(f.TickSize).IsZero() {
		return &exchange.ValidationError{
			Filter:  "PRICE_FILTER",
			Message: fmt.Sprintf("price %s does not align with tick size %s", price, f.TickSize),
		}
	}
	return nil
}

// checkNotional enforces MIN_NOTIONAL for orders that carry a price. Market
// orders are skipped; their notional depends on the fill price.
func checkNotional(f *exchange.InstrumentFilter, price, qty decimal.Decimal) error {
	if !f.MinNotional.IsPositive() {
		return nil
	}
	if notional := price.Mul(qty); notional.Cmp(f.MinNotional) < 0 {
		return &exchange.ValidationError{
			Filter:  "MIN_NOTIONAL",
			Message: fmt.Sprintf("order notional %s is below the minimum %s", notional, f.MinNotional),
		}
	}
	return nil
}
