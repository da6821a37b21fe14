package cli

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// WASM builds the browser bundle (cmd/search) into the site's output
// directory and copies the Go runtime loader next to it.
func WASM(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wasm", flag.ContinueOnError)
	dir := fs.String("dir", "public", "Built site directory")
	name := fs.String("o", "search.wasm", "Output file name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wasmOut := filepath.Join(*dir, *name)
	if err := os.MkdirAll(filepath.Dir(wasmOut), 0755); err != nil {
		return fmt.Errorf("failed to create WASM directory: %w", err)
	}

	_, _ = fmt.Fprintln(out, "🚀 Building Search WASM...")
	cmd := exec.Command("go", "build", "-ldflags=-s -w", "-o", wasmOut, "./cmd/search")
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("WASM build failed: %w", err)
	}

	if err := copyWasmExec(filepath.Join(*dir, "wasm_exec.js")); err != nil {
		return err
	}

	_, err := fmt.Fprintln(out, "✅ WASM build complete.")
	return err
}

// copyWasmExec copies the loader matching the toolchain that built the
// bundle. Go 1.24 moved it from misc/wasm to lib/wasm.
func copyWasmExec(dst string) error {
	var goroot bytes.Buffer
	cmd := exec.Command("go", "env", "GOROOT")
	cmd.Stdout = &goroot
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("locate GOROOT: %w", err)
	}
	root := strings.TrimSpace(goroot.String())

	for _, rel := range []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"} {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		return os.WriteFile(dst, data, 0644)
	}
	return fmt.Errorf("wasm_exec.js not found under %s", root)
}
