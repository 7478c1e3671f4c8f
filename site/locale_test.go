package site

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveLocale_SupportedCountries(t *testing.T) {
	log := discardLogger()

	country, currency := ResolveLocale("US", log)
	assert.Equal(t, "US", country)
	assert.Equal(t, "USD", currency)

	country, currency = ResolveLocale("GB", log)
	assert.Equal(t, "GB", country)
	assert.Equal(t, "GBP", currency)

	// Every other supported country is a euro country.
	for _, code := range SupportedCountries() {
		if code == "US" || code == "GB" {
			continue
		}
		country, currency = ResolveLocale(code, log)
		assert.Equal(t, code, country)
		assert.Equal(t, "EUR", currency)
	}
}

func TestResolveLocale_Fallback(t *testing.T) {
	log := discardLogger()

	for _, code := range []string{"", "XX", "usa", "gb"} {
		country, currency := ResolveLocale(code, log)
		assert.Equal(t, DefaultCountryCode, country, "code %q", code)
		assert.Equal(t, "USD", currency, "code %q", code)
	}
}
