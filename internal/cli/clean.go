package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Kush-Singh-26/kosh-client/client/config"
)

// Clean clears the session bucket of the local state store, as closing the
// browser tab would. With -all the whole state file is deleted.
func Clean(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("clean", flag.ContinueOnError)
	configPath := flags.String("config", config.DefaultPath, "Config file")
	all := flags.Bool("all", false, "Delete stored preferences too")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := config.Load(*configPath)

	if *all {
		if err := os.Remove(cfg.StatePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove state: %w", err)
		}
		_, err := fmt.Fprintf(out, "🧹 Removed %s\n", cfg.StatePath)
		return err
	}

	db, err := openState(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.ClearSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	_, err = fmt.Fprintln(out, "🧹 Session storage cleared")
	return err
}
