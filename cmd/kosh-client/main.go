package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kush-Singh-26/kosh-client/internal/cli"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelWarn
	if os.Getenv("KOSH_CLIENT_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var err error
	switch command {
	case "search":
		err = cli.Search(ctx, args, os.Stdout, logger)
	case "serve":
		err = cli.Serve(ctx, args, logger)
	case "bootstrap":
		err = cli.Bootstrap(os.Stdout)
	case "stamp":
		err = cli.Stamp(args, os.Stdout)
	case "theme":
		err = cli.Theme(args, os.Stdout, logger)
	case "clean":
		err = cli.Clean(args, os.Stdout)
	case "wasm":
		err = cli.WASM(args, os.Stdout)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: kosh-client <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  search <query>   Run a query against the site index and print the results")
	fmt.Println("  serve            Start the preview server with auto-reload")
	fmt.Println("  bootstrap        Print the inline theme <script> for <head>")
	fmt.Println("  stamp [file]     Print the index version stamp (-write to stamp pages)")
	fmt.Println("  theme [value]    Show or set the stored theme (light, dark, toggle, reset)")
	fmt.Println("  clean            Clear session storage (-all removes the state file)")
	fmt.Println("  wasm             Build the browser bundle into the site directory")
	fmt.Println("  help             Show this help message")
	fmt.Println("\nFlags for search:")
	fmt.Println("  -dir <path>      Read index.json from a built site instead of the network")
	fmt.Println("  -minify          Minify the rendered markup")
	fmt.Println("  -stats           Print index and query metrics")
}
