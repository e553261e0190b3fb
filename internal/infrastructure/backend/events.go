package backend

import (
	"encoding/json"
	"fmt"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
)

// DoneSite is the sentinel site key marking the terminal stream message
const DoneSite = "_done_"

// StreamEvent is one framed message on the live comparison stream.
// Regular events carry a single vendor's result; the terminal event carries
// the sentinel site key and the final worthiness assessment.
type StreamEvent struct {
	Site      string                 `json:"site"`
	Result    map[string]interface{} `json:"result"`
	Worthit   *domain.Worthiness     `json:"worthit"`
	TotalTime float64                `json:"total_time"`
}

// MoreResponse is the JSON body of one "more results" poll. While the
// second scrape phase runs the backend answers {"status":"loading"}; a
// finished phase carries a site→result map, either under "results" or as
// the top-level object itself.
type MoreResponse struct {
	Query   string                            `json:"query"`
	Status  string                            `json:"status"`
	Results map[string]map[string]interface{} `json:"results"`
	Worthit *domain.Worthiness                `json:"worthit"`
}

// StillLoading reports whether the backend is still working on phase two
func (r *MoreResponse) StillLoading() bool {
	return r.Status == "loading"
}

// known top-level keys of the enveloped /more response shape
var moreEnvelopeKeys = map[string]bool{
	"query":   true,
	"status":  true,
	"results": true,
	"worthit": true,
	"error":   true,
}

// ParseMoreResponse decodes a /more body, accepting both the enveloped
// shape {"results": {site: result}} and the legacy bare site→result map.
func ParseMoreResponse(body []byte) (*MoreResponse, error) {
	var resp MoreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode more response: %w", err)
	}
	if resp.Results != nil || resp.StillLoading() {
		return &resp, nil
	}

	// Bare map fallback: treat unknown top-level keys as site entries
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("failed to decode more response: %w", err)
	}
	results := make(map[string]map[string]interface{})
	for site, rawValue := range top {
		if moreEnvelopeKeys[site] {
			continue
		}
		var result map[string]interface{}
		if err := json.Unmarshal(rawValue, &result); err != nil {
			continue
		}
		results[site] = result
	}
	if len(results) > 0 {
		resp.Results = results
	}
	return &resp, nil
}
