package usecase

import (
	"log"

	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
)

// Collector is the shared aggregation path behind both data channels:
// vendor payloads are normalized, accepted rows upsert into the table, and
// score updates flow into the tracker. The live stream and the polling
// fallback feed the same Collector so their semantics cannot drift.
type Collector struct {
	rows  *RowTable
	score *ScoreTracker
}

// NewCollector creates a collector writing into the given table and tracker
func NewCollector(rows *RowTable, score *ScoreTracker) *Collector {
	return &Collector{
		rows:  rows,
		score: score,
	}
}

// ResultReceived normalizes one vendor payload and upserts it if accepted.
// Rejected payloads are filtered inputs, not errors.
func (c *Collector) ResultReceived(site string, raw map[string]interface{}) {
	row, ok := NormalizeResult(site, raw)
	if !ok {
		log.Printf("[collector] dropping unusable result from %s", site)
		return
	}
	c.rows.Upsert(row)
}

// ScoreReceived applies a worthiness update from either channel
func (c *Collector) ScoreReceived(w domain.Worthiness) {
	c.score.Apply(w)
}

var _ domain.EventSink = (*Collector)(nil)
