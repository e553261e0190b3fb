package domain

// NoLinkURL is the placeholder used when a vendor result carries no product link
const NoLinkURL = "#"

// Row represents one vendor's canonical comparison entry.
// Rows are immutable value objects; the row table replaces them wholesale.
type Row struct {
	Site  string  `json:"site"`
	Title string  `json:"title"`
	Price float64 `json:"price"` // rupees, rounded to 2 decimals
	URL   string  `json:"url"`
}

// Worthiness is the backend-authoritative deal assessment.
// Score conceptually lives in [0,100] but the producer may exceed 100
// for below-average prices; display clamping is the consumer's job.
type Worthiness struct {
	Score    *float64 `json:"score"`
	AvgPrice *float64 `json:"avg_price,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// SearchRequest represents a user-initiated comparison search
type SearchRequest struct {
	Query          string `json:"query"`
	ReferencePrice string `json:"userPrice"`
}
