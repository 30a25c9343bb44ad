package ui

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// bannerTTL is how long a success banner stays up before auto-clearing.
// Error banners persist until the next action attempt.
const bannerTTL = 3 * time.Second

func money(d decimal.Decimal) string {
	f, _ := d.Float64()
	return "$" + humanize.FormatFloat("#,###.##", f)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// errorMessage displays err, falling back to the call site's fixed string
// when the error carries no usable message.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
