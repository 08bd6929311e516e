// Command strongholdd is the background daemon exposing a Stronghold
// facade over a UID-restricted UNIX domain socket, for callers that want a
// long-lived facade instead of strongholdctl's load-operate-commit cycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/stronghold-go/stronghold/rpcfront"
	"github.com/stronghold-go/stronghold/stronghold"
)

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "strongholdd.sock")
	}

	return filepath.Join(os.TempDir(), fmt.Sprintf("strongholdd-%d.sock", os.Getuid()))
}

func main() {
	socketPath := flag.String("socket", defaultSocketPath(), "Path of the UNIX domain socket to listen on")
	help := flag.Bool("help", false, "Show usage information")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `strongholdd - background daemon serving a Stronghold facade.

Usage: strongholdd [options]

Runs over a UID-restricted UNIX domain socket and serves the facade's
operations to local RPC clients until terminated.

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	s, err := stronghold.New(ctx)
	if err != nil {
		log.Fatalf("strongholdd: new facade: %v", err)
	}

	srv := rpcfront.NewServer(s, *socketPath)

	log.Println(srv.Serve(ctx))
}
