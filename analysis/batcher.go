package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/apex/log"

	"elora/models"
)

// Batcher pages through the vehicle list in fixed-size batches and asks
// the LLM for commentary on each, sleeping between calls to stay under the
// provider's rate limits. Sequential on purpose: this is a throttle, not a
// worker pool.
type Batcher struct {
	client    Client
	batchSize int
	delay     time.Duration
}

func NewBatcher(client Client, batchSize int, delay time.Duration) *Batcher {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Batcher{client: client, batchSize: batchSize, delay: delay}
}

// Run summarizes all vehicles and returns the combined commentary. A
// failed batch is logged and skipped; the remaining batches still run.
func (b *Batcher) Run(ctx context.Context, vehicles []models.Vehicle) (string, error) {
	var sections []string
	for start := 0; start < len(vehicles); start += b.batchSize {
		if err := ctx.Err(); err != nil {
			return strings.Join(sections, "\n\n"), err
		}
		end := start + b.batchSize
		if end > len(vehicles) {
			end = len(vehicles)
		}

		payload, err := json.Marshal(vehicles[start:end])
		if err != nil {
			return "", err
		}

		summary, err := b.client.Summarize(string(payload))
		if err != nil {
			log.WithError(err).Warnf("%s batch %d-%d failed, skipping", b.client.SourceName(), start, end)
		} else if summary != "" {
			sections = append(sections, summary)
		}

		if end < len(vehicles) && b.delay > 0 {
			select {
			case <-ctx.Done():
				return strings.Join(sections, "\n\n"), ctx.Err()
			case <-time.After(b.delay):
			}
		}
	}
	return strings.Join(sections, "\n\n"), nil
}
