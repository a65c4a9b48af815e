package normalize

import (
	"strconv"
	"strings"

	"booking-sync-service/internal/domain/entity"
)

const defaultCurrency = "THB"

// resolvePrice resolves the booking price from a raw record.
//
// Precedence:
//  1. a structured price object on the record itself
//  2. the price-type discriminator (fixed vs hourly) with its value field
//  3. a fixed ordered scan of legacy price fields, first positive wins
func resolvePrice(raw entity.RawBooking) (amount float64, currency, formatted string) {
	currency = raw.StringValue(currencyAliases...)
	if currency == "" {
		currency = defaultCurrency
	}

	if obj, ok := raw["price"].(map[string]interface{}); ok {
		if v, ok := entity.ToFloat(obj["amount"]); ok {
			amount = v
			if c := entity.ToString(obj["currency"]); c != "" {
				currency = c
			}
			if f := entity.ToString(obj["formatted"]); f != "" {
				formatted = f
			} else {
				formatted = formatPrice(currency, amount)
			}
			return amount, currency, formatted
		}
	}

	if v, ok := priceFromDiscriminator(raw); ok {
		return v, currency, formatPrice(currency, v)
	}

	for _, key := range priceFallbackAliases {
		if value, ok := raw.Lookup(key); ok {
			if v, ok := entity.ToFloat(value); ok && v > 0 {
				return v, currency, formatPrice(currency, v)
			}
		}
	}

	return 0, currency, ""
}

func priceFromDiscriminator(raw entity.RawBooking) (float64, bool) {
	priceType := strings.ToLower(raw.StringValue(priceTypeAliases...))
	switch priceType {
	case "1", "fixed":
		if value, ok := raw.Lookup(priceFixedAliases...); ok {
			if v, ok := entity.ToFloat(value); ok && v > 0 {
				return v, true
			}
		}
	case "2", "hourly":
		if value, ok := raw.Lookup(priceHourlyAliases...); ok {
			if v, ok := entity.ToFloat(value); ok && v > 0 {
				hours := 1.0
				if h, ok := raw.Lookup(priceHoursAliases...); ok {
					if hv, ok := entity.ToFloat(h); ok && hv > 0 {
						hours = hv
					}
				}
				return v * hours, true
			}
		}
	}
	return 0, false
}

func formatPrice(currency string, amount float64) string {
	return currency + " " + strconv.FormatFloat(amount, 'f', 2, 64)
}
