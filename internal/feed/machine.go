package feed

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/glabrego/reviews-feed/internal/assets"
	"github.com/glabrego/reviews-feed/internal/layout"
	"github.com/glabrego/reviews-feed/internal/plural"
)

const (
	DefaultPageSize     = 20
	DefaultFetchTimeout = 10 * time.Second
)

type Options struct {
	PageSize     int
	FetchTimeout time.Duration
	CountFont    layout.Font
	Logger       *slog.Logger
}

// Machine is the single owner of the feed. It is not safe for concurrent use:
// every method must be called from the bubbletea update loop, and background
// results come back through Update.
type Machine struct {
	loader    PageLoader
	enricher  Enricher
	pageSize  int
	timeout   time.Duration
	countFont layout.Font
	logger    *slog.Logger

	rows       []RowItem
	index      map[uuid.UUID]int
	total      int
	totalKnown bool
	count      *CountRow
	generation uint64
	fetching   bool
	unsettled  int
	loaded     bool
	exhausted  bool
	lastErr    error

	observers    []observer
	nextObserver int
}

type observer struct {
	id int
	fn func(Snapshot)
}

func NewMachine(loader PageLoader, enricher Enricher, opts Options) *Machine {
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		loader:    loader,
		enricher:  enricher,
		pageSize:  pageSize,
		timeout:   timeout,
		countFont: opts.CountFont,
		logger:    logger,
		index:     make(map[uuid.UUID]int),
	}
}

// Subscribe registers fn for a snapshot after every visible change.
func (m *Machine) Subscribe(fn func(Snapshot)) (cancel func()) {
	m.nextObserver++
	id := m.nextObserver
	m.observers = append(m.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

func (m *Machine) notify() {
	if len(m.observers) == 0 {
		return
	}
	snap := m.Snapshot()
	for _, o := range m.observers {
		o.fn(snap)
	}
}

// LoadFirstPage starts the initial fetch. It does nothing while a fetch is in
// flight or once a page has loaded; use Refresh to start over.
func (m *Machine) LoadFirstPage() tea.Cmd {
	if m.fetching || m.totalKnown {
		return nil
	}
	return m.fetch(0)
}

// LoadNextPage fetches the page after the last displayed row. Before any page
// has loaded it performs the first-page load.
func (m *Machine) LoadNextPage() tea.Cmd {
	if !m.totalKnown {
		return m.LoadFirstPage()
	}
	if m.fetching || m.Complete() {
		return nil
	}
	return m.fetch(len(m.rows))
}

// Refresh drops every row and restarts from the first page. Observers get a
// single snapshot, already in PhaseLoadingFirst. Results of work started before
// the refresh are ignored when they arrive.
func (m *Machine) Refresh() tea.Cmd {
	m.generation++
	m.rows = nil
	m.index = make(map[uuid.UUID]int)
	m.total = 0
	m.totalKnown = false
	m.count = nil
	m.fetching = false
	m.unsettled = 0
	m.loaded = false
	m.exhausted = false
	m.lastErr = nil
	m.logger.Info("feed refreshed", "generation", m.generation)
	// The first-page fetch notifies with the reset state.
	return m.LoadFirstPage()
}

// Expand shows the full body of a row. It reports whether anything changed.
func (m *Machine) Expand(id uuid.UUID) bool {
	i, ok := m.index[id]
	if !ok || m.rows[i].MaxLines == 0 {
		return false
	}
	m.rows[i].MaxLines = 0
	m.notify()
	return true
}

// RequestExpand is the row command handed to the renderer.
func (m *Machine) RequestExpand(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return ExpandMsg{RowID: id}
	}
}

func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PageFetchedMsg:
		return m.applyPage(msg)
	case PageFailedMsg:
		m.applyFailure(msg)
	case AssetResolvedMsg:
		if msg.Generation != m.generation {
			return nil
		}
		m.applyAsset(msg)
		return msg.Next
	case PageSettledMsg:
		m.applySettled(msg)
	case ExpandMsg:
		m.Expand(msg.RowID)
	}
	return nil
}

func (m *Machine) fetch(offset int) tea.Cmd {
	m.fetching = true
	m.lastErr = nil
	m.notify()

	loader := m.loader
	generation := m.generation
	limit := m.pageSize
	timeout := m.timeout
	m.logger.Debug("fetching page", "generation", generation, "offset", offset, "limit", limit)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := loader.LoadPage(ctx, offset, limit)
		if err != nil {
			return PageFailedMsg{Generation: generation, Offset: offset, Err: err}
		}
		return PageFetchedMsg{Generation: generation, Offset: offset, Page: page}
	}
}

func (m *Machine) applyPage(msg PageFetchedMsg) tea.Cmd {
	if msg.Generation != m.generation {
		m.logger.Debug("dropping stale page", "generation", msg.Generation, "current", m.generation)
		return nil
	}
	m.fetching = false

	if !m.totalKnown {
		m.total = msg.Page.Count
		m.totalKnown = true
	}
	records := msg.Page.Items
	if skip := len(m.rows) - msg.Offset; skip > 0 {
		if skip >= len(records) {
			records = nil
		} else {
			records = records[skip:]
		}
	}
	if room := m.total - len(m.rows); len(records) > room {
		records = records[:max(room, 0)]
	}
	if len(records) == 0 && len(m.rows) < m.total {
		m.exhausted = true
		m.logger.Warn("provider returned an empty page before the total was reached",
			"offset", msg.Offset, "rows", len(m.rows), "total", m.total)
	}

	rows, cmd := m.enricher.EnrichPage(m.generation, records)
	for _, row := range rows {
		m.index[row.ID] = len(m.rows)
		m.rows = append(m.rows, row)
	}
	m.count = &CountRow{
		Total: m.total,
		Label: layout.Text{Content: plural.Count(m.total, plural.ReviewForms), Font: m.countFont, Role: layout.RoleCount},
	}
	if cmd != nil {
		m.unsettled++
	} else {
		m.loaded = true
	}

	m.logger.Info("page loaded", "offset", msg.Offset, "rows", len(m.rows), "total", m.total)
	m.notify()
	return cmd
}

func (m *Machine) applyFailure(msg PageFailedMsg) {
	if msg.Generation != m.generation {
		return
	}
	m.fetching = false
	m.lastErr = msg.Err
	m.logger.Warn("page fetch failed", "offset", msg.Offset, "error", msg.Err)
	m.notify()
}

func (m *Machine) applyAsset(msg AssetResolvedMsg) {
	if msg.Image == nil {
		return
	}
	i, ok := m.index[msg.RowID]
	if !ok {
		return
	}
	row := &m.rows[i]
	switch {
	case msg.Slot == AvatarSlot:
		row.Avatar = msg.Image
	case msg.Slot >= 0 && msg.Slot < len(row.Photos):
		photos := make([]*assets.Image, len(row.Photos))
		copy(photos, row.Photos)
		photos[msg.Slot] = msg.Image
		row.Photos = photos
	default:
		return
	}
	m.notify()
}

func (m *Machine) applySettled(msg PageSettledMsg) {
	if msg.Generation != m.generation {
		return
	}
	if m.unsettled > 0 {
		m.unsettled--
	}
	m.loaded = true
	m.notify()
}

// Loading is true from a page fetch until that page's assets have settled.
func (m *Machine) Loading() bool {
	return m.fetching || m.unsettled > 0
}

// Loaded reports whether a page has ever fully settled since the last refresh.
func (m *Machine) Loaded() bool {
	return m.loaded
}

// Complete reports whether every review the provider announced is displayed.
func (m *Machine) Complete() bool {
	return m.totalKnown && (len(m.rows) >= m.total || m.exhausted)
}

func (m *Machine) Phase() Phase {
	switch {
	case m.loaded && m.Loading():
		return PhaseLoadingMore
	case m.loaded:
		return PhaseLoaded
	case m.Loading():
		return PhaseLoadingFirst
	default:
		return PhaseIdle
	}
}

func (m *Machine) Len() int {
	return len(m.rows)
}

// Row returns a copy of the i-th row.
func (m *Machine) Row(i int) (RowItem, bool) {
	if i < 0 || i >= len(m.rows) {
		return RowItem{}, false
	}
	return m.rows[i], true
}

func (m *Machine) RowByID(id uuid.UUID) (RowItem, bool) {
	i, ok := m.index[id]
	if !ok {
		return RowItem{}, false
	}
	return m.rows[i], true
}

// Count is the trailing summary row, nil until the total is known.
func (m *Machine) Count() *CountRow {
	if m.count == nil {
		return nil
	}
	c := *m.count
	return &c
}

func (m *Machine) Total() (int, bool) {
	return m.total, m.totalKnown
}

func (m *Machine) Generation() uint64 {
	return m.generation
}

func (m *Machine) LastError() error {
	return m.lastErr
}

func (m *Machine) Snapshot() Snapshot {
	rows := make([]RowItem, len(m.rows))
	copy(rows, m.rows)
	return Snapshot{
		Rows:       rows,
		Count:      m.Count(),
		Total:      m.total,
		TotalKnown: m.totalKnown,
		PageSize:   m.pageSize,
		Offset:     len(m.rows),
		Loading:    m.Loading(),
		Loaded:     m.loaded,
		Complete:   m.Complete(),
		Phase:      m.Phase(),
		Generation: m.generation,
		Err:        m.lastErr,
	}
}
