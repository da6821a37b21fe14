//go:build js && wasm

package browser

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/Kush-Singh-26/kosh-client/client/index"
	"github.com/Kush-Singh-26/kosh-client/client/models"
)

// Fetcher loads the index with window.fetch. URLs ending in .gz are
// decompressed in the browser with DecompressionStream.
type Fetcher struct {
	URL string
}

func (f *Fetcher) Fetch(ctx context.Context) ([]models.Entry, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	var funcs []js.Func
	release := func() {
		for _, fn := range funcs {
			fn.Release()
		}
	}
	fn := func(cb func(this js.Value, args []js.Value) interface{}) js.Func {
		f := js.FuncOf(cb)
		funcs = append(funcs, f)
		return f
	}

	window := js.Global()
	fail := fn(func(this js.Value, args []js.Value) interface{} {
		msg := "fetch failed"
		if len(args) > 0 && present(args[0]) {
			msg = args[0].Call("toString").String()
		}
		ch <- result{err: fmt.Errorf("%s", msg)}
		return nil
	})

	readBuffer := fn(func(this js.Value, args []js.Value) interface{} {
		uint8Array := window.Get("Uint8Array").New(args[0])
		dst := make([]byte, uint8Array.Length())
		js.CopyBytesToGo(dst, uint8Array)
		ch <- result{data: dst}
		return nil
	})

	success := fn(func(this js.Value, args []js.Value) interface{} {
		resp := args[0]
		if !resp.Get("ok").Bool() {
			ch <- result{err: fmt.Errorf("bad status: %d %s", resp.Get("status").Int(), resp.Get("statusText").String())}
			return nil
		}

		if strings.HasSuffix(f.URL, ".gz") {
			dsCtor := window.Get("DecompressionStream")
			if dsCtor.IsUndefined() {
				ch <- result{err: fmt.Errorf("DecompressionStream not supported in this browser")}
				return nil
			}
			stream := resp.Get("body").Call("pipeThrough", dsCtor.New("gzip"))
			resp = window.Get("Response").New(stream)
		}

		resp.Call("arrayBuffer").Call("then", readBuffer, fail)
		return nil
	})

	window.Call("fetch", f.URL).Call("then", success, fail)

	// Callbacks stay alive while the promise is pending, even if ctx ends.
	select {
	case <-ctx.Done():
		go func() {
			<-ch
			release()
		}()
		return nil, ctx.Err()
	case res := <-ch:
		release()
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", index.ErrFetch, res.err)
		}
		return index.Parse(bytes.NewReader(res.data))
	}
}

var _ index.Fetcher = (*Fetcher)(nil)
