package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/druidlabs/sampleserve/internal/config"
	"github.com/druidlabs/sampleserve/internal/server"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		printUsage(os.Stdout)
		return
	}

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	// Ctrl+C is the normal way to stop the server.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sampleserve [port]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Serves the demo/sample-data directory next to the executable over")
	fmt.Fprintln(w, "HTTP so ingestion tools can load the files by URL.")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  port    TCP port to listen on, 1-65535 (default %d)\n", config.DefaultPort)
}
