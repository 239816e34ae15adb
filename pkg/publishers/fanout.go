package publishers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// Fanout delivers each event to every publisher in parallel.
type Fanout struct {
	publishers []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	return &Fanout{publishers: lo.Filter(pubs, func(p Publisher, _ int) bool { return p != nil })}
}

// Publish waits for all publishers and returns how many accepted evt, along
// with the joined errors of those that did not.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	results := make([]error, len(f.publishers))
	var wg sync.WaitGroup
	for i, p := range f.publishers {
		wg.Add(1)
		go func(i int, p Publisher) {
			defer wg.Done()
			if err := p.Publish(ctx, evt); err != nil {
				results[i] = fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
			}
		}(i, p)
	}
	wg.Wait()

	failed := lo.Filter(results, func(err error, _ int) bool { return err != nil })
	return len(results) - len(failed), errors.Join(failed...)
}

// Size returns the number of publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers that hold network clients.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.publishers)
}
