// Package handle is the message-passing facade consumers (serve, read
// surfaces) use instead of touching the updater or store directly, per
// spec §4.8. A Client is a small value type wrapping one sender end of a
// bounded request channel; the Server owns the receive end and the actual
// store/updater access, run as its own long-lived task (spec §5's "handle
// server"). Grounded on the teacher's app/tasks/task_scheduler.go
// request-channel idiom, generalized from a task queue to a request/reply
// protocol.
package handle

import (
	"context"
	"fmt"
	"time"

	"github.com/lysyi3m/feedcomb/app/feedsrc"
	"github.com/lysyi3m/feedcomb/app/model"
	"github.com/lysyi3m/feedcomb/app/store"
	"github.com/lysyi3m/feedcomb/app/updater"
)

// requestChanSize is the bounded request channel's capacity (spec §5).
const requestChanSize = 10

// FetchScope discriminates FeedFetch's three option shapes.
type FetchScope int

const (
	FetchAll FetchScope = iota
	FetchByFeedName
	FetchByTag
)

// FetchOptions mirrors spec §4.8's All{since?, modified_since?} |
// Feed{name, since?} | Tag{name, since?}.
type FetchOptions struct {
	Scope         FetchScope
	Name          string // Feed/Tag name; ignored for All
	Since         *time.Time
	ModifiedSince *time.Time // accepted for All; fetchFeed does not read it
}

type entriesSearchRequest struct {
	criteria store.Criteria
	cursor   store.Cursor
	max      int
	reply    chan<- []store.Record
}

type feedFetchRequest struct {
	options FetchOptions
	reply   chan<- []store.Record
}

type entryUpdateRequest struct {
	id    int64
	tags  []model.Tag
	reply chan<- error
}

type commandUpdateRequest struct {
	id         int64
	name       string
	resultCode int
	output     string
	success    bool
	reply      chan<- error
}

type feedNameRequest struct {
	id    model.FeedId
	reply chan<- feedNameReply
}

type feedNameReply struct {
	name string
	ok   bool
}

// request is the sum type every UpdaterRequest variant implements; only
// the Server's select loop ever inspects it.
type request interface {
	isRequest()
}

func (entriesSearchRequest) isRequest() {}
func (feedFetchRequest) isRequest()     {}
func (entryUpdateRequest) isRequest()   {}
func (commandUpdateRequest) isRequest() {}
func (feedNameRequest) isRequest()      {}

// Client is the public surface: copyable, safe to share across
// goroutines, and the only way callers reach the updater/store.
type Client struct {
	requests chan request
}

// ErrServerBusy is returned when the bounded request channel is full and
// ctx has no deadline to wait out the backpressure.
var ErrServerBusy = fmt.Errorf("handle: request channel full")

func (c Client) send(ctx context.Context, req request) error {
	if _, ok := ctx.Deadline(); !ok {
		select {
		case c.requests <- req:
			return nil
		default:
			return ErrServerBusy
		}
	}
	select {
	case c.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EntriesSearch runs criteria against the store, bounded to max results
// (cursor restricts by timestamp).
func (c Client) EntriesSearch(ctx context.Context, criteria store.Criteria, cursor store.Cursor, max int) ([]store.Record, error) {
	reply := make(chan []store.Record, 1)
	if err := c.send(ctx, entriesSearchRequest{criteria: criteria, cursor: cursor, max: max, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FeedFetch answers one of the three FeedFetch option shapes, with global
// (and, for FetchAll, all-feed) filters already applied.
func (c Client) FeedFetch(ctx context.Context, options FetchOptions) ([]store.Record, error) {
	reply := make(chan []store.Record, 1)
	if err := c.send(ctx, feedFetchRequest{options: options, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// EntryUpdate replaces the tag set for entry id.
func (c Client) EntryUpdate(ctx context.Context, id int64, tags []model.Tag) error {
	reply := make(chan error, 1)
	if err := c.send(ctx, entryUpdateRequest{id: id, tags: tags, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CommandUpdate records a command's result against entry id.
func (c Client) CommandUpdate(ctx context.Context, id int64, name string, resultCode int, output string, success bool) error {
	reply := make(chan error, 1)
	req := commandUpdateRequest{id: id, name: name, resultCode: resultCode, output: output, success: success, reply: reply}
	if err := c.send(ctx, req); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FeedName resolves id to its registered display name.
func (c Client) FeedName(ctx context.Context, id model.FeedId) (string, bool, error) {
	reply := make(chan feedNameReply, 1)
	if err := c.send(ctx, feedNameRequest{id: id, reply: reply}); err != nil {
		return "", false, err
	}
	select {
	case res := <-reply:
		return res.name, res.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Server owns the receive end of the request channel plus the store and
// updater it's a facade for. Run should be launched as its own long-lived
// task, independently cancelled from the poller per spec §5, so in-flight
// polls are never aborted by a query-side cancellation.
type Server struct {
	requests      chan request
	store         *store.Store
	updater       *updater.Updater
	globalFilters []model.Filter
	allFilters    []model.Filter
}

// NewServer returns a Server and its paired Client. globalFilters apply to
// every FeedFetch/EntriesSearch result; allFilters additionally apply only
// to FetchAll.
func NewServer(st *store.Store, upd *updater.Updater, globalFilters, allFilters []model.Filter) (*Server, Client) {
	s := &Server{
		requests:      make(chan request, requestChanSize),
		store:         st,
		updater:       upd,
		globalFilters: globalFilters,
		allFilters:    allFilters,
	}
	return s, Client{requests: s.requests}
}

// Run processes requests until ctx is cancelled, matching spec §5's "select
// loop: on each iteration it either receives a request ... or receives a
// cancellation signal, and exits."
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case req := <-s.requests:
			s.handle(ctx, req)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, req request) {
	switch r := req.(type) {
	case entriesSearchRequest:
		records, err := s.store.GetEntries(r.criteria, r.max, r.cursor)
		if err != nil {
			r.reply <- nil
			return
		}
		r.reply <- s.applyFilters(records, s.globalFilters)
	case feedFetchRequest:
		r.reply <- s.fetchFeed(r.options)
	case entryUpdateRequest:
		r.reply <- s.store.UpdateTags(r.id, r.tags)
	case commandUpdateRequest:
		r.reply <- s.store.StoreCommandResult(r.id, r.name, fmt.Sprintf("%d: %s", r.resultCode, r.output), r.success)
	case feedNameRequest:
		name, ok := s.updater.FeedName(r.id)
		r.reply <- feedNameReply{name: name, ok: ok}
	}
}

func (s *Server) fetchFeed(options FetchOptions) []store.Record {
	var criteria store.Criteria
	switch options.Scope {
	case FetchByFeedName:
		criteria = store.ByFeed(options.Name)
	case FetchByTag:
		criteria = store.ByTag(options.Name)
	default:
		criteria = store.Latest()
	}

	cursor := store.OpenCursor()
	if options.Since != nil {
		cursor = store.CursorAfterAt(*options.Since)
	}

	records, err := s.store.GetEntries(criteria, 0, cursor)
	if err != nil {
		return nil
	}

	filters := s.globalFilters
	if options.Scope == FetchAll {
		filters = append(append([]model.Filter(nil), s.globalFilters...), s.allFilters...)
	}
	return s.applyFilters(records, filters)
}

func (s *Server) applyFilters(records []store.Record, filters []model.Filter) []store.Record {
	if len(filters) == 0 {
		return records
	}
	sentinel := feedsrc.NoopFeed{}
	out := make([]store.Record, 0, len(records))
	for _, rec := range records {
		pass := true
		for _, f := range filters {
			if !f(sentinel, rec.Entry) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, rec)
		}
	}
	return out
}
