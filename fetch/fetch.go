// Package fetch retrieves block children from the Notion API with a global
// concurrency bound, retries on transient failures, and transparent cursor
// pagination.
package fetch

import (
	"context"
	"math/rand"
	"time"

	"github.com/Emre-C/notion-to-md/notion"
	"github.com/Emre-C/notion-to-md/types"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// Fetcher wraps a notion.Client with the retry and rate-budget policy from
// the converter configuration. One Fetcher is shared by all resolve calls
// on a converter, so the concurrency bound models the API's rate budget
// process-wide.
type Fetcher struct {
	client   notion.Client
	slots    chan struct{}
	attempts int
	delay    time.Duration
}

func New(client notion.Client, cfg types.Config) *Fetcher {
	bound := cfg.MaxConcurrentRequests
	if bound <= 0 {
		bound = types.DefaultConfig().MaxConcurrentRequests
	}

	delay := cfg.APIRateLimitDelay
	if delay <= 0 {
		delay = types.DefaultConfig().APIRateLimitDelay
	}

	attempts := cfg.APIRetryAttempts
	if attempts < 0 {
		attempts = 0
	}

	return &Fetcher{
		client:   client,
		slots:    make(chan struct{}, bound),
		attempts: attempts,
		delay:    delay,
	}
}

// Children returns all direct children of the given block, following
// continuation cursors until the listing is exhausted. The whole call
// consumes one concurrency slot; excess calls queue until a slot frees.
func (fetcher *Fetcher) Children(
	ctx context.Context,
	blockID string,
) ([]notion.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case fetcher.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	defer func() {
		<-fetcher.slots
	}()

	var (
		children []notion.Block
		cursor   string
	)

	for {
		page, err := fetcher.page(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}

		children = append(children, page.Results...)

		if !page.HasMore || page.NextCursor == "" {
			break
		}

		cursor = page.NextCursor
	}

	return children, nil
}

func (fetcher *Fetcher) page(
	ctx context.Context,
	blockID string,
	cursor string,
) (*notion.ChildrenPage, error) {
	var lastErr error

	for attempt := 0; attempt <= fetcher.attempts; attempt++ {
		if attempt > 0 {
			backoff := fetcher.backoff(attempt)

			log.Debugf(
				karma.Describe("block", blockID),
				"transient fetch failure, retrying in %v (attempt %d/%d)",
				backoff,
				attempt,
				fetcher.attempts,
			)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		page, err := fetcher.client.GetBlockChildren(ctx, blockID, cursor)
		if err == nil {
			return page, nil
		}

		if !notion.IsTransient(err) {
			return nil, err
		}

		lastErr = err
	}

	return nil, karma.Format(
		lastErr,
		"retries exhausted after %d attempts",
		fetcher.attempts,
	)
}

// maxBackoff caps the doubling so high attempt counts cannot overflow the
// duration into a negative sleep.
const maxBackoff = time.Minute

// backoff doubles the base delay per attempt, capped at maxBackoff, and
// spreads calls with up to 50% jitter so concurrent branches don't retry
// in lockstep.
func (fetcher *Fetcher) backoff(attempt int) time.Duration {
	backoff := fetcher.delay
	for i := 1; i < attempt && backoff < maxBackoff; i++ {
		backoff *= 2
	}

	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))

	return backoff + jitter
}
