package theme

import (
	"strings"
	"testing"

	"github.com/dop251/goja"
)

// runBootstrap executes script against a stubbed window. A nil stored value
// means the key is absent; storageErr makes getItem throw.
func runBootstrap(t *testing.T, script string, stored *string, storageErr, prefersDark, hasMatchMedia bool) string {
	t.Helper()
	vm := goja.New()

	localStorage := vm.NewObject()
	_ = localStorage.Set("getItem", func(call goja.FunctionCall) goja.Value {
		if storageErr {
			panic(vm.NewTypeError("storage disabled"))
		}
		if stored == nil {
			return goja.Null()
		}
		return vm.ToValue(*stored)
	})
	_ = vm.Set("localStorage", localStorage)

	window := vm.NewObject()
	if hasMatchMedia {
		_ = window.Set("matchMedia", func(query string) map[string]interface{} {
			return map[string]interface{}{"matches": prefersDark && strings.Contains(query, "dark")}
		})
	}
	_ = vm.Set("window", window)

	root := vm.NewObject()
	document := vm.NewObject()
	_ = document.Set("documentElement", root)
	_ = vm.Set("document", document)

	if _, err := vm.RunString(script); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	return root.Get("className").String()
}

func TestBootstrapScript(t *testing.T) {
	dark, light, junk := "dark", "light", "sepia"

	tests := []struct {
		name          string
		stored        *string
		storageErr    bool
		prefersDark   bool
		hasMatchMedia bool
		want          string
	}{
		{"stored dark beats light system", &dark, false, false, true, "dark"},
		{"stored light beats dark system", &light, false, true, true, "light"},
		{"unset follows dark system", nil, false, true, true, "dark"},
		{"unset follows light system", nil, false, false, true, "light"},
		{"unknown value follows system", &junk, false, true, true, "dark"},
		{"storage throws", nil, true, true, true, "dark"},
		{"no matchMedia", nil, false, true, false, "light"},
	}

	minified, err := MinifiedBootstrap()
	if err != nil {
		t.Fatalf("MinifiedBootstrap: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runBootstrap(t, BootstrapScript, tt.stored, tt.storageErr, tt.prefersDark, tt.hasMatchMedia)
			if got != tt.want {
				t.Errorf("className = %q, want %q", got, tt.want)
			}
			got = runBootstrap(t, minified, tt.stored, tt.storageErr, tt.prefersDark, tt.hasMatchMedia)
			if got != tt.want {
				t.Errorf("minified className = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBootstrapTag(t *testing.T) {
	tag, err := BootstrapTag()
	if err != nil {
		t.Fatalf("BootstrapTag: %v", err)
	}
	if !strings.HasPrefix(tag, "<script>") || !strings.HasSuffix(tag, "</script>") {
		t.Errorf("unexpected tag: %q", tag)
	}
	if len(tag) >= len(BootstrapScript)+len("<script></script>") {
		t.Errorf("minified tag is not smaller than the source: %d bytes", len(tag))
	}
}
