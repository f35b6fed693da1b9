// Package updater implements the per-cycle polling scheduler: it owns the
// registered feeds, runs their Update concurrently bounded to a worker
// count, drains results through the tag hooks, and maintains the in-memory
// EntrySet the store layer persists from. Concurrency follows the teacher's
// app/tasks/scheduler.go worker-pool idiom (fixed goroutines draining a
// channel, bounded by workerCount) adapted from a long-lived task queue to
// a one-shot per-cycle fan-out, since the scheduler here polls a fixed
// feed set each cycle rather than executing arbitrary retryable tasks.
package updater

import (
	"context"
	"sync"
	"time"

	"github.com/lysyi3m/feedcomb/app/logger"
	"github.com/lysyi3m/feedcomb/app/model"
)

type registeredFeed struct {
	id         model.FeedId
	feed       model.FeedVariant
	attr       model.FeedAttributes
	lastUpdate *time.Time
}

// Updater holds the registered feed set and in-memory results, and drives
// one polling cycle per call to Update.
type Updater struct {
	mu      sync.Mutex
	feeds   map[model.FeedId]*registeredFeed
	nextID  model.FeedId
	freq    time.Duration
	workers int
	entries *model.EntrySet

	lastUpdateCheck *time.Time
}

// New returns an Updater polling at most every freq, with up to workers
// feeds in flight concurrently, bounding the in-memory set to maxEntries.
func New(freq time.Duration, workers, maxEntries int) *Updater {
	if workers <= 0 {
		workers = 8
	}
	return &Updater{
		feeds:   make(map[model.FeedId]*registeredFeed),
		freq:    freq,
		workers: workers,
		entries: model.NewEntrySet(maxEntries),
	}
}

// AddFeed registers feed under attr and returns its assigned id.
func (u *Updater) AddFeed(feed model.FeedVariant, attr model.FeedAttributes) model.FeedId {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.nextID++
	id := u.nextID
	u.feeds[id] = &registeredFeed{id: id, feed: feed, attr: attr}
	return id
}

// FeedName returns the display name registered for id, if any.
func (u *Updater) FeedName(id model.FeedId) (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	rf, ok := u.feeds[id]
	if !ok {
		return "", false
	}
	return rf.attr.DisplayName, true
}

// Entries returns a clone of the current in-memory set so callers can read
// it without racing the next cycle's mutations.
func (u *Updater) Entries() *model.EntrySet {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.entries.Clone()
}

// Update runs one polling cycle. It is not cancel-safe: a cancelled ctx
// still lets in-flight feed fetches finish before Update returns, since
// partial results would otherwise corrupt the in-memory set's merge step.
func (u *Updater) Update(ctx context.Context) {
	u.mu.Lock()
	now := time.Now().UTC()
	if u.lastUpdateCheck != nil {
		due := u.lastUpdateCheck.Add(u.freq)
		if due.After(now) {
			u.mu.Unlock()
			select {
			case <-time.After(due.Sub(now)):
			case <-ctx.Done():
				return
			}
			u.mu.Lock()
			now = time.Now().UTC()
		}
	}
	u.lastUpdateCheck = &now
	u.entries.Clear()

	type job struct {
		rf    *registeredFeed
		prior *time.Time
	}
	due := make([]job, 0, len(u.feeds))
	for _, rf := range u.feeds {
		if rf.lastUpdate != nil {
			freq := u.freq
			if rf.attr.Freq != nil {
				freq = *rf.attr.Freq
			}
			if rf.lastUpdate.Add(freq).After(now) {
				logger.FeedSkipped(rf.attr.DisplayName, "not due")
				continue
			}
		}
		// Capture the prior last_update for If-Modified-Since before
		// overwriting it, so a retried/timed-out feed isn't hammered every
		// cycle regardless of whether this poll succeeds.
		prior := rf.lastUpdate
		rf.lastUpdate = &now
		due = append(due, job{rf: rf, prior: prior})
	}
	all := make([]*registeredFeed, 0, len(u.feeds))
	for _, rf := range u.feeds {
		all = append(all, rf)
	}
	u.mu.Unlock()

	results := make(chan model.EntryResult, 64)
	// jobs tracks per-job dispatch (bounded by sem); producers tracks the
	// underlying feed.Update goroutine itself, which pollOne may abandon at
	// its timeout without it having actually returned. results must not be
	// closed until every producer goroutine has truly finished sending,
	// or a straggler's send after close would panic the whole process.
	var jobs sync.WaitGroup
	var producers sync.WaitGroup
	sem := make(chan struct{}, u.workers)

	for _, j := range due {
		jobs.Add(1)
		go func(rf *registeredFeed, priorLastUpdate *time.Time) {
			defer jobs.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			u.pollOne(ctx, rf, priorLastUpdate, results, &producers)
		}(j.rf, j.prior)
	}

	go func() {
		jobs.Wait()
		producers.Wait()
		close(results)
	}()

	for res := range results {
		entry := res.Entry
		entry.AddFeed(res.Feed)
		for _, rf := range all {
			rf.feed.Tag(entry, rf.id, rf.attr)
		}
		u.mu.Lock()
		u.entries.Add(entry)
		u.mu.Unlock()
	}

	u.mu.Lock()
	u.entries.Sort()
	u.mu.Unlock()
}

// pollOne runs one feed's Update under a per-feed timeout. It returns as
// soon as Update finishes or the timeout fires, whichever comes first, but
// it never abandons the Update goroutine: producers.Add is called before
// Update is spawned and producers.Done fires in its defer regardless of
// which select case woke pollOne, so a caller waiting on producers always
// sees every spawned goroutine actually exit before treating the cycle as
// drained.
func (u *Updater) pollOne(ctx context.Context, rf *registeredFeed, priorLastUpdate *time.Time, results chan<- model.EntryResult, producers *sync.WaitGroup) {
	timeout := rf.attr.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	// Detached from ctx's cancellation: an in-flight poll completes or hits
	// its own timeout, never aborted by a shutdown mid-cycle.
	pollCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	uctx := &model.UpdaterContext{
		LastUpdate: priorLastUpdate,
		ParseTime:  time.Now().UTC(),
		FeedID:     rf.id,
		Results:    results,
	}

	producers.Add(1)
	done := make(chan struct{})
	go func() {
		defer producers.Done()
		defer close(done)
		rf.feed.Update(pollCtx, uctx, rf.attr)
	}()

	select {
	case <-done:
	case <-pollCtx.Done():
		logger.FeedTimeout(rf.attr.DisplayName, timeout.String())
	}
}
