// Package stream fan-outs live console transactions to active subscribers
// (SSE clients on the dashboard).
package stream

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"adminconsole/internal/ids"
	"adminconsole/internal/mockdata"
)

// Feed broadcasts live transactions to every subscriber. Slow subscribers
// drop events rather than blocking the publisher.
type Feed struct {
	mu   sync.RWMutex
	subs map[int]chan mockdata.LiveTxn
	next int
	rnd  *rand.Rand
}

// NewFeed initialises an empty feed.
func NewFeed() *Feed {
	return &Feed{
		subs: make(map[int]chan mockdata.LiveTxn),
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (f *Feed) Subscribe(ctx context.Context) <-chan mockdata.LiveTxn {
	ch := make(chan mockdata.LiveTxn, 16)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (f *Feed) Publish(txn mockdata.LiveTxn) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- txn:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

// RandomDemoTxn creates an artificial transaction for demo purposes.
func (f *Feed) RandomDemoTxn() mockdata.LiveTxn {
	companyID := int64(1 + f.rnd.Intn(2))
	branchID := companyID*10 + int64(1+f.rnd.Intn(2))
	return mockdata.LiveTxn{
		ID:        ids.New(),
		TS:        mockdata.BangkokNow(time.Now()),
		Scope:     "ALL",
		Amount:    float64(100+f.rnd.Intn(5_000_000)) / 100,
		CompanyID: companyID,
		BranchID:  branchID,
	}
}

// StartDemo appends and publishes random transactions at the provided
// interval until the returned stop function is called. sink is typically
// the console data repository; a nil sink only broadcasts.
func (f *Feed) StartDemo(interval time.Duration, sink func(context.Context, mockdata.LiveTxn) error) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				txn := f.RandomDemoTxn()
				if sink != nil {
					_ = sink(ctx, txn)
				}
				f.Publish(txn)
			}
		}
	}()
	return cancel
}
