package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
)

// Vendor payloads are heterogeneous; each field is probed against a
// prioritized list of names and the first usable value wins.
var (
	titleFields = []string{"title", "name", "productTitle"}
	priceFields = []string{"price_text", "priceText", "price", "amount", "offer_price"}
	urlFields   = []string{"url", "link", "productUrl"}

	// Strips thousands separators, the rupee glyph, and whitespace
	priceNoisePattern = regexp.MustCompile(`[,₹\s]`)
)

// NormalizeResult maps one vendor's raw result object into a canonical Row.
// A result without a usable title or a non-zero price is a filtered input,
// not an error: the second return value is false and no Row is produced.
// Pure function of its inputs.
func NormalizeResult(site string, raw map[string]interface{}) (domain.Row, bool) {
	if raw == nil {
		return domain.Row{}, false
	}

	title := firstString(raw, titleFields)
	price := extractPrice(raw)
	if title == "" || price == 0 {
		return domain.Row{}, false
	}

	url := firstString(raw, urlFields)
	if url == "" {
		url = domain.NoLinkURL
	}

	return domain.Row{
		Site:  site,
		Title: title,
		Price: price,
		URL:   url,
	}, true
}

// firstString returns the first non-empty string among the candidate fields
func firstString(raw map[string]interface{}, fields []string) string {
	for _, field := range fields {
		if s, ok := raw[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// extractPrice picks the first non-empty price field, cleans it, and rounds
// to 2 decimals. An unparseable value degrades to 0; later fields are not
// consulted once a non-empty one has been chosen.
func extractPrice(raw map[string]interface{}) float64 {
	for _, field := range priceFields {
		switch v := raw[field].(type) {
		case string:
			cleaned := priceNoisePattern.ReplaceAllString(v, "")
			if cleaned == "" {
				continue
			}
			parsed, err := strconv.ParseFloat(cleaned, 64)
			if err != nil {
				return 0
			}
			return roundPrice(parsed)
		case float64:
			if v == 0 {
				continue
			}
			return roundPrice(v)
		case int:
			if v == 0 {
				continue
			}
			return roundPrice(float64(v))
		}
	}
	return 0
}

// roundPrice rounds to 2 decimal places using standard rounding
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}

// CleanReferencePrice strips thousands separators and surrounding
// whitespace from a user-entered price before it is sent to the backend
func CleanReferencePrice(price string) string {
	return strings.TrimSpace(strings.ReplaceAll(price, ",", ""))
}
