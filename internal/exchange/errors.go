package exchange

import "fmt"

// ValidationError is a local pre-flight rejection. Filter names the
// violated exchange filter; no network order call was made.
type ValidationError struct {
	Filter  string // SYMBOL, LOT_SIZE, PRICE_FILTER, MIN_NOTIONAL
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Filter, e.Message)
}

// UpstreamError carries a non-success response from an upstream service
// (exchange or completion API) unmodified.
type UpstreamError struct {
	Service string // "binance" or "openai"
	Code    int64  // upstream error code, 0 when absent
	Status  int    // HTTP status, 0 when unknown
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error %d: %s", e.Service, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Service, e.Message)
}
