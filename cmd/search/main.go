//go:build js && wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/Kush-Singh-26/kosh-client/client/index"
	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/theme"
	"github.com/Kush-Singh-26/kosh-client/client/toc"
	"github.com/Kush-Singh-26/kosh-client/client/widget"
	"github.com/Kush-Singh-26/kosh-client/internal/browser"
)

func main() {
	c := make(chan struct{})
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	local := browser.LocalStorage()
	root := browser.Root{}

	// nil *DarkScheme must reach the controller as a nil interface.
	var media theme.MediaQuery
	if dark := browser.NewDarkScheme(); dark != nil {
		media = dark
	}
	themes := theme.NewController(local, root, media, logger)
	themes.Watch()

	cache := index.NewCache(
		browser.SessionStorage(),
		&browser.Fetcher{URL: index.DefaultPath},
		index.WithVersion(root.CacheVersion()),
		index.WithLogger(logger),
	)
	search := widget.New(browser.SearchPage{}, cache,
		widget.WithLogger(logger),
		widget.WithMetrics(cache.Metrics()),
	)

	js.Global().Set("setTheme", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		if t, ok := models.ParseTheme(args[0].String()); ok {
			themes.Set(t)
		}
		return nil
	}))
	js.Global().Set("toggleTheme", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return string(themes.Toggle())
	}))
	js.Global().Set("executeSearch", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		return promise(func() error { return search.Execute(context.Background(), args[0].String()) })
	}))

	browser.OnReady(func() {
		if el := browser.FindAccordion(toc.Selector); el != nil {
			acc := toc.NewAccordion(el, browser.Window{}, local, logger)
			acc.Restore()
			el.OnLinkClick(acc.HandleLinkClick)
			el.OnToggle(acc.HandleToggle)
		}

		// Blocking work must leave the event-loop callback.
		go func() {
			if err := search.Load(context.Background(), browser.LocationSearch()); err != nil && !errors.Is(err, widget.ErrSuperseded) {
				logger.Warn("initial search failed", "error", err)
			}
		}()
	})

	<-c
}

// promise runs fn off the event loop and settles a JS Promise with its
// outcome. A superseded search resolves quietly.
func promise(fn func() error) js.Value {
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve := args[0]
		reject := args[1]

		go func() {
			err := fn()
			if err != nil && !errors.Is(err, widget.ErrSuperseded) {
				reject.Invoke(fmt.Sprintf("Search error: %v", err))
				return
			}
			resolve.Invoke()
		}()

		return nil
	})

	// The executor runs synchronously inside the constructor.
	defer handler.Release()
	promiseConstructor := js.Global().Get("Promise")
	return promiseConstructor.New(handler)
}
