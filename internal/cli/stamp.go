package cli

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Kush-Singh-26/kosh-client/client/index"
)

const stampAttrName = "data-search-cache-version"

var (
	htmlOpenRe  = regexp.MustCompile(`(?i)<html\b[^>]*>`)
	stampAttrRe = regexp.MustCompile(`\s+` + stampAttrName + `="[^"]*"`)
)

// Stamp prints the version stamp of an index file. With -write it also sets
// the data-search-cache-version attribute on every HTML page under -dir, so
// browsers drop session copies of an older index.
func Stamp(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("stamp", flag.ContinueOnError)
	dir := flags.String("dir", "public", "Built site directory")
	write := flags.Bool("write", false, "Write the stamp into the site's HTML pages")
	if err := flags.Parse(args); err != nil {
		return err
	}

	path := filepath.Join(*dir, strings.TrimPrefix(index.DefaultPath, "/"))
	if flags.NArg() > 0 {
		path = flags.Arg(0)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	stamp := index.Stamp(data)

	if !*write {
		_, err := fmt.Fprintln(out, stamp)
		return err
	}

	pages := 0
	err = filepath.WalkDir(*dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return err
		}
		changed, err := stampPage(p, stamp)
		if changed {
			pages++
		}
		return err
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "🔖 %s written to %d page(s)\n", stamp, pages)
	return err
}

func stampPage(path, stamp string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	loc := htmlOpenRe.FindIndex(data)
	if loc == nil {
		return false, nil
	}

	tag := stampAttrRe.ReplaceAll(data[loc[0]:loc[1]], nil)
	attr := fmt.Sprintf(` %s="%s"`, stampAttrName, stamp)
	end := len(tag) - 1
	if bytes.HasSuffix(tag, []byte("/>")) {
		end--
	}
	newTag := append(append(append([]byte{}, tag[:end]...), attr...), tag[end:]...)

	if bytes.Equal(newTag, data[loc[0]:loc[1]]) {
		return false, nil
	}

	var buf bytes.Buffer
	buf.Write(data[:loc[0]])
	buf.Write(newTag)
	buf.Write(data[loc[1]:])
	return true, os.WriteFile(path, buf.Bytes(), 0644)
}
