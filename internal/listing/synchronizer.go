// Package listing keeps an incrementally loaded, de-duplicated list of shops
// in sync with the paginated establishments endpoint.
package listing

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tesoura/internal/model"
	"tesoura/internal/normalize"
)

// DefaultPageSize is the number of shops requested per page.
const DefaultPageSize = 5

// Fetcher loads one page of raw shop records. Pages are 1-based.
type Fetcher interface {
	ListEstablishments(ctx context.Context, page, limit int) ([]model.ShopRecord, error)
}

// State is a snapshot of the synchronizer.
type State struct {
	Items     []model.Shop
	Cursor    int
	Exhausted bool
	Pending   bool
	Err       error
}

// Claim identifies a page fetch handed out by Start. Gen is the reset
// generation the fetch belongs to.
type Claim struct {
	Page int
	Gen  int
}

// Synchronizer loads pages on demand. At most one fetch is in flight; a
// trigger arriving while one is pending is dropped.
type Synchronizer struct {
	fetcher  Fetcher
	pageSize int
	log      *zap.Logger

	mu        sync.Mutex
	items     []model.Shop
	seen      map[string]struct{}
	cursor    int
	exhausted bool
	pending   bool
	err       error
	gen       int
}

// New creates a Synchronizer. A non-positive pageSize uses DefaultPageSize.
func New(fetcher Fetcher, pageSize int, logger *zap.Logger) *Synchronizer {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		fetcher:  fetcher,
		pageSize: pageSize,
		log:      logger.Named("listing"),
		seen:     make(map[string]struct{}),
	}
}

// Start claims the next page. It returns ok=false, and changes nothing, when
// a fetch is already pending or the list is exhausted. On ok=true the caller
// must fetch c.Page and hand the result to Finish.
func (s *Synchronizer) Start() (c Claim, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending || s.exhausted {
		return Claim{}, false
	}
	s.pending = true
	return Claim{Page: s.cursor + 1, Gen: s.gen}, true
}

// Finish applies the result of the fetch claimed as c and clears the pending
// flag. A result claimed before the last Reset is dropped without touching
// state. It returns how many new shops were appended.
func (s *Synchronizer) Finish(c Claim, records []model.ShopRecord, err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := c.Page
	if c.Gen != s.gen {
		s.log.Debug("dropping page fetched before reset", zap.Int("page", page))
		return 0
	}
	s.pending = false

	if err != nil {
		s.err = err
		s.exhausted = true
		s.log.Warn("page fetch failed, stopping pagination", zap.Int("page", page), zap.Error(err))
		return 0
	}

	if len(records) == 0 {
		s.exhausted = true
		s.log.Debug("empty page, list exhausted", zap.Int("page", page))
		return 0
	}

	fresh := make([]model.Shop, 0, len(records))
	for _, rec := range records {
		shop := normalize.Shop(rec)
		if shop.ID == "" {
			s.log.Debug("dropping shop without id", zap.Int("page", page))
			continue
		}
		if _, dup := s.seen[shop.ID]; dup {
			continue
		}
		s.seen[shop.ID] = struct{}{}
		fresh = append(fresh, shop)
	}

	if len(fresh) == 0 {
		// The backend repeated a page we already have.
		s.exhausted = true
		s.log.Debug("page had no new shops, list exhausted", zap.Int("page", page))
		return 0
	}

	s.items = append(s.items, fresh...)
	s.cursor = page

	if len(records) < s.pageSize {
		s.exhausted = true
	}
	s.log.Debug("page applied",
		zap.Int("page", page),
		zap.Int("received", len(records)),
		zap.Int("added", len(fresh)),
		zap.Bool("exhausted", s.exhausted))
	return len(fresh)
}

// LoadNextPage fetches and applies the next page. It is a no-op returning nil
// while a fetch is pending or once the list is exhausted. A fetch error is
// recorded, stops further pagination and is returned.
func (s *Synchronizer) LoadNextPage(ctx context.Context) error {
	c, ok := s.Start()
	if !ok {
		return nil
	}
	records, err := s.fetcher.ListEstablishments(ctx, c.Page, s.pageSize)
	s.Finish(c, records, err)
	return err
}

// Generation returns the number of resets so far. Claims from an older
// generation are ignored by Finish.
func (s *Synchronizer) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Fetch runs the request for page without touching state. It is the
// off-loop half of Start/Finish.
func (s *Synchronizer) Fetch(ctx context.Context, page int) ([]model.ShopRecord, error) {
	return s.fetcher.ListEstablishments(ctx, page, s.pageSize)
}

// Snapshot returns a copy of the current state.
func (s *Synchronizer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]model.Shop, len(s.items))
	copy(items, s.items)
	return State{
		Items:     items,
		Cursor:    s.cursor,
		Exhausted: s.exhausted,
		Pending:   s.pending,
		Err:       s.err,
	}
}

// Reset drops every loaded shop so the next LoadNextPage starts at page 1.
// A fetch still in flight is disowned: its result will be ignored.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.items = nil
	s.seen = make(map[string]struct{})
	s.cursor = 0
	s.exhausted = false
	s.pending = false
	s.err = nil
}

// NearEnd reports whether the sentinel row, the virtual row after the last
// item, lies within the viewport extended by lookahead rows. offset is the
// index of the first visible row.
func NearEnd(offset, viewport, total, lookahead int) bool {
	if viewport < 0 {
		viewport = 0
	}
	if lookahead < 0 {
		lookahead = 0
	}
	return offset+viewport+lookahead >= total
}
