// Package cli implements the kosh-client subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/kosh-client/client/config"
	"github.com/Kush-Singh-26/kosh-client/client/index"
	"github.com/Kush-Singh-26/kosh-client/client/storage"
	"github.com/Kush-Singh-26/kosh-client/client/utils"
	"github.com/Kush-Singh-26/kosh-client/client/widget"
)

// textPage collects the widget's output for printing.
type textPage struct {
	template string
	blocks   []string
}

func (p *textPage) SetQuery(string) {}

func (p *textPage) ResultTemplate() string { return p.template }

func (p *textPage) SetResults(html string) {
	p.blocks = p.blocks[:0]
	if html != "" {
		p.blocks = append(p.blocks, html)
	}
}

func (p *textPage) AppendResult(html string) { p.blocks = append(p.blocks, html) }

// Search runs a query against a built site's index and writes the result
// markup to out, as the search page would render it.
func Search(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath, "Config file")
	dir := fs.String("dir", "", "Read index.json from this directory instead of the network")
	url := fs.String("url", "", "Index URL (overrides config)")
	tmplPath := fs.String("template", "", "File holding the result template")
	minify := fs.Bool("minify", false, "Minify the rendered markup")
	color := fs.Bool("color", false, "Syntax-highlight the markup for a terminal")
	stats := fs.Bool("stats", false, "Print index and query metrics")
	binary := fs.Bool("msgpack", true, "Store the session copy as zstd-compressed msgpack")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if query == "" {
		return fmt.Errorf("usage: kosh-client search [flags] <query>")
	}

	cfg := config.Load(*configPath)
	if *url != "" {
		cfg.IndexURL = *url
	}

	var fetcher index.Fetcher
	if *dir != "" {
		fetcher = &index.FileFetcher{Fs: afero.NewOsFs(), Path: filepath.Join(*dir, strings.TrimPrefix(index.DefaultPath, "/"))}
	} else {
		fetcher = &index.HTTPFetcher{URL: cfg.IndexURL}
	}

	db, err := openState(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	opts := []index.Option{
		index.WithVersion(cfg.CacheVersion),
		index.WithLogger(logger),
	}
	if *binary {
		codec, err := index.NewMsgpackCodec()
		if err != nil {
			return err
		}
		defer func() { _ = codec.Close() }()
		opts = append(opts, index.WithCodec(codec))
	}
	cache := index.NewCache(db.Scope(storage.BucketSession), fetcher, opts...)

	page := &textPage{}
	if *tmplPath != "" {
		data, err := os.ReadFile(*tmplPath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		page.template = string(data)
	}

	w := widget.New(page, cache,
		widget.WithOptions(cfg.Search.Options()),
		widget.WithSummaryInclude(cfg.Search.SummaryInclude),
		widget.WithLogger(logger),
		widget.WithMetrics(cache.Metrics()),
	)

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	searchErr := w.Execute(fetchCtx, query)

	for _, block := range page.blocks {
		if *minify {
			if block, err = utils.MinifyHTML(block); err != nil {
				return err
			}
		}
		block = strings.TrimSpace(block) + "\n"
		if *color {
			if err := quick.Highlight(out, block, "html", "terminal256", "nord"); err != nil {
				return err
			}
			continue
		}
		if _, err := io.WriteString(out, block); err != nil {
			return err
		}
	}

	if *stats {
		_, _ = fmt.Fprintln(out, cache.Metrics().String())
	}
	return searchErr
}

func openState(cfg *config.Config) (*storage.Bolt, error) {
	return storage.OpenBolt(cfg.StatePath, cfg.StorageTimeout)
}
