// Package widget drives the search page: it reads the query from the URL,
// acquires the index, runs the fuzzy query and renders result blocks.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/Kush-Singh-26/kosh-client/client/metrics"
	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/render"
	"github.com/Kush-Singh-26/kosh-client/client/search"
)

// QueryParam is the URL parameter carrying the initial search phrase.
const QueryParam = "s"

// ErrSuperseded is returned by Execute when a newer query started before
// this one finished. Nothing is rendered for it.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Page is the DOM surface the widget reads and writes.
type Page interface {
	SetQuery(q string)
	// ResultTemplate returns the inline result template markup, or "" when
	// the page has none.
	ResultTemplate() string
	SetResults(html string)
	AppendResult(html string)
}

// IndexSource yields the search index.
type IndexSource interface {
	Acquire(ctx context.Context) ([]models.Entry, error)
}

type Widget struct {
	page    Page
	source  IndexSource
	opts    search.Options
	include int
	hl      *search.Highlighter
	logger  *slog.Logger
	metrics *metrics.SearchMetrics

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

type Option func(*Widget)

func WithOptions(opts search.Options) Option {
	return func(w *Widget) { w.opts = opts }
}

// WithSummaryInclude sets the context window around contents matches.
func WithSummaryInclude(n int) Option {
	return func(w *Widget) {
		if n > 0 {
			w.include = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Widget) { w.logger = logger }
}

func WithMetrics(m *metrics.SearchMetrics) Option {
	return func(w *Widget) { w.metrics = m }
}

func New(page Page, source IndexSource, opts ...Option) *Widget {
	w := &Widget{
		page:    page,
		source:  source,
		opts:    search.DefaultOptions(),
		include: search.SummaryInclude,
		hl:      search.NewHighlighter(),
		logger:  slog.Default(),
		metrics: metrics.NewSearchMetrics(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load runs the query carried by rawQuery (a URL query string, with or
// without the leading '?'). It does nothing when the parameter is absent or
// empty.
func (w *Widget) Load(ctx context.Context, rawQuery string) error {
	q := Param(rawQuery, QueryParam)
	if q == "" {
		return nil
	}
	w.page.SetQuery(q)
	return w.Execute(ctx, q)
}

// Execute acquires the index and renders the results for query. Starting a
// new Execute cancels the wait of the previous one, and a superseded call
// never renders.
func (w *Widget) Execute(ctx context.Context, query string) error {
	ctx, gen := w.begin(ctx)

	entries, err := w.source.Acquire(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		w.metrics.IncrementSuperseded()
		return ErrSuperseded
	}

	if err != nil {
		w.logger.Error("search error", "query", query, "error", err)
		w.page.SetResults(render.UnavailableHTML)
		return err
	}

	return w.perform(entries, query)
}

func (w *Widget) begin(ctx context.Context) (context.Context, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.gen++
	return ctx, w.gen
}

// Perform runs query against entries and renders the outcome.
func (w *Widget) Perform(entries []models.Entry, query string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.perform(entries, query)
}

func (w *Widget) perform(entries []models.Entry, query string) error {
	searcher, err := search.NewSearcher(entries, w.opts)
	if err != nil {
		return err
	}
	results := searcher.Search(query)
	w.metrics.RecordSearch(len(results))

	if len(results) == 0 {
		w.page.SetResults(render.NoMatchesHTML)
		return nil
	}

	w.page.SetResults("")

	src := w.page.ResultTemplate()
	if strings.TrimSpace(src) == "" {
		src = render.DefaultResultTemplate
	}
	tmpl := render.Compile(src)

	for key, r := range results {
		sum := search.Summarize(r, w.include)
		out := tmpl.Execute(render.Data{
			Key:     key,
			Title:   r.Item.Title,
			Link:    r.Item.Permalink,
			Tags:    r.Item.Tags,
			Snippet: sum.Snippet,
		})

		marked, err := w.hl.Mark(out, search.SummaryID(key), sum.Highlights)
		if err != nil {
			w.logger.Warn("highlight failed", "key", key, "error", err)
			marked = out
		}
		w.page.AppendResult(marked)
	}
	return nil
}

// Param returns the percent-decoded value of name in rawQuery, with '+'
// read as a space.
func Param(rawQuery, name string) string {
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return values.Get(name)
}
