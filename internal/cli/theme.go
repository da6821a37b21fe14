package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/Kush-Singh-26/kosh-client/client/config"
	"github.com/Kush-Singh-26/kosh-client/client/models"
	"github.com/Kush-Singh-26/kosh-client/client/storage"
	"github.com/Kush-Singh-26/kosh-client/client/theme"
)

// rootClass records the class the controller applies.
type rootClass struct{ class string }

func (r *rootClass) SetRootClass(class string) { r.class = class }

// fixedScheme is a system color scheme given on the command line.
type fixedScheme bool

func (f fixedScheme) Matches() bool              { return bool(f) }
func (f fixedScheme) OnChange(func(matches bool)) {}

// Theme reads or changes the stored theme preference in the local state
// store: "kosh-client theme [light|dark|toggle|reset]".
func Theme(args []string, out io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("theme", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath, "Config file")
	dark := fs.Bool("system-dark", false, "Assume the system prefers a dark color scheme")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load(*configPath)
	db, err := openState(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	local := db.Scope(storage.BucketLocal)
	root := &rootClass{}
	ctrl := theme.NewController(local, root, fixedScheme(*dark), logger)

	switch action := fs.Arg(0); action {
	case "":
	case "toggle":
		ctrl.Toggle()
	case "reset":
		if err := local.Remove(theme.StorageKey); err != nil {
			return err
		}
	default:
		t, ok := models.ParseTheme(action)
		if !ok {
			return fmt.Errorf("unknown theme %q (want light, dark, toggle or reset)", action)
		}
		ctrl.Set(t)
	}

	current := ctrl.Current()
	source := "system"
	if _, ok := ctrl.Stored(); ok {
		source = "stored"
	}
	_, err = fmt.Fprintf(out, "🎨 %s (%s)\n", current, source)
	return err
}
