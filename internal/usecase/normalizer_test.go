package usecase

import (
	"testing"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
)

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		name    string
		site    string
		raw     map[string]interface{}
		want    domain.Row
		wantRow bool
	}{
		{
			name: "indian price text with thousands separators",
			site: "amazon",
			raw: map[string]interface{}{
				"price_text": "₹1,23,456",
				"title":      "Phone X",
			},
			want:    domain.Row{Site: "amazon", Title: "Phone X", Price: 123456.00, URL: "#"},
			wantRow: true,
		},
		{
			name: "numeric price with link",
			site: "flipkart",
			raw: map[string]interface{}{
				"title": "Phone X 256GB",
				"price": 74999.0,
				"url":   "https://flipkart.example/phone-x",
			},
			want:    domain.Row{Site: "flipkart", Title: "Phone X 256GB", Price: 74999.00, URL: "https://flipkart.example/phone-x"},
			wantRow: true,
		},
		{
			name: "alternate field names",
			site: "croma",
			raw: map[string]interface{}{
				"productTitle": "Phone X",
				"offer_price":  "69,990",
				"productUrl":   "https://croma.example/p",
			},
			want:    domain.Row{Site: "croma", Title: "Phone X", Price: 69990.00, URL: "https://croma.example/p"},
			wantRow: true,
		},
		{
			name: "price rounded to 2 decimals",
			site: "reliance",
			raw: map[string]interface{}{
				"name":  "Phone X",
				"price": 74999.456,
				"link":  "https://reliance.example/p",
			},
			want:    domain.Row{Site: "reliance", Title: "Phone X", Price: 74999.46, URL: "https://reliance.example/p"},
			wantRow: true,
		},
		{
			name: "missing title rejects",
			site: "amazon",
			raw: map[string]interface{}{
				"price_text": "₹999",
			},
			wantRow: false,
		},
		{
			name: "missing price rejects",
			site: "amazon",
			raw: map[string]interface{}{
				"title": "Phone X",
			},
			wantRow: false,
		},
		{
			name: "zero price rejects",
			site: "amazon",
			raw: map[string]interface{}{
				"title": "Phone X",
				"price": 0.0,
			},
			wantRow: false,
		},
		{
			name: "unparseable first price field degrades to zero and rejects",
			site: "amazon",
			raw: map[string]interface{}{
				"title":      "Phone X",
				"price_text": "coming soon",
				"price":      999.0,
			},
			wantRow: false,
		},
		{
			name:    "nil payload rejects",
			site:    "amazon",
			raw:     nil,
			wantRow: false,
		},
		{
			name: "missing both title and price rejects",
			site: "pai",
			raw: map[string]interface{}{
				"rating": 4.5,
			},
			wantRow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeResult(tt.site, tt.raw)
			if ok != tt.wantRow {
				t.Fatalf("NormalizeResult() ok = %v, want %v", ok, tt.wantRow)
			}
			if !tt.wantRow {
				return
			}
			if got != tt.want {
				t.Errorf("NormalizeResult() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCleanReferencePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"75,000", "75000"},
		{"  75000 ", "75000"},
		{"1,23,456", "123456"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanReferencePrice(tt.in); got != tt.want {
				t.Errorf("CleanReferencePrice(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
