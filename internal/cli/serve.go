package cli

import (
	"context"
	"flag"
	"log/slog"

	"github.com/Kush-Singh-26/kosh-client/client/config"
	"github.com/Kush-Singh-26/kosh-client/internal/server"
)

// Serve starts the preview server for a built site.
func Serve(ctx context.Context, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath, "Config file")
	host := fs.String("host", "", "The host/IP to bind to")
	port := fs.String("port", "", "The port to listen on")
	dir := fs.String("dir", "", "Directory to serve")
	prefix := fs.String("prefix", "", "Path prefix the site is deployed under (e.g. /docs/)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load(*configPath)
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dir != "" {
		cfg.Server.Dir = *dir
	}

	return server.New(cfg.Server, *prefix, logger).Run(ctx)
}
