package site

import "log/slog"

// DefaultCountryCode is used whenever a request omits the country code
// or names a country outside the supported set.
const DefaultCountryCode = "US"

// countryCurrency is the fixed table of supported countries and the
// default currency each resolves to. Membership in this table doubles
// as the supported-country allow-list.
var countryCurrency = map[string]string{
	"US": "USD",
	"GB": "GBP",
	"AT": "EUR",
	"BE": "EUR",
	"CY": "EUR",
	"EE": "EUR",
	"FI": "EUR",
	"FR": "EUR",
	"DE": "EUR",
	"GR": "EUR",
	"IE": "EUR",
	"IT": "EUR",
	"LV": "EUR",
	"LT": "EUR",
	"LU": "EUR",
	"MT": "EUR",
	"NL": "EUR",
	"PT": "EUR",
	"SK": "EUR",
	"SI": "EUR",
	"ES": "EUR",
}

// ResolveLocale maps an optional country code to a supported
// (country, currency) pair. Unsupported or absent codes fall back to
// DefaultCountryCode with a logged warning. It never fails.
func ResolveLocale(countryCode string, log *slog.Logger) (country, currency string) {
	currency, ok := countryCurrency[countryCode]
	if !ok {
		log.Warn("Unsupported country code, defaulting",
			slog.String("requested", countryCode),
			slog.String("default", DefaultCountryCode))
		countryCode = DefaultCountryCode
		currency = countryCurrency[DefaultCountryCode]
	}
	return countryCode, currency
}

// SupportedCountries returns the allow-list of country codes.
func SupportedCountries() []string {
	codes := make([]string, 0, len(countryCurrency))
	for code := range countryCurrency {
		codes = append(codes, code)
	}
	return codes
}
