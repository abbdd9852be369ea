package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tidesql/tidesql/cli"
	"github.com/tidesql/tidesql/config"
	"github.com/tidesql/tidesql/src/engine"
)

const usage = `tidesql - database access layer utilities

Usage:
  tidesql <command> [arguments]

Commands:
  check <config>   Validate a configuration file
  ping <config>    Connect to the configured database and ping it

Options:
  -h, --help    Show this help message
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	switch cmd := os.Args[1]; cmd {
	case "-h", "--help", "help":
		fmt.Print(usage)
		os.Exit(0)

	case "check":
		if len(os.Args) < 3 {
			cli.Fatal("'tidesql check' requires a config file path")
		}
		checkCmd(os.Args[2])

	case "ping":
		if len(os.Args) < 3 {
			cli.Fatal("'tidesql ping' requires a config file path")
		}
		pingCmd(os.Args[2])

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", cmd)
		fmt.Fprintln(os.Stderr, "Run 'tidesql --help' for usage.")
		os.Exit(1)
	}
}

func checkCmd(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		cli.FatalErr("config check failed", err)
	}
	cli.Successf("%s is valid", path)
	cli.Infof("  pool: size=%d overflow=%d timeout=%s pre_ping=%v",
		cfg.Pool.Size, cfg.Pool.MaxOverflow, cfg.Pool.CheckoutTimeout, cfg.Pool.PrePing)
	cli.Infof("  cache: size=%d", cfg.Cache.Size)
}

func pingCmd(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		cli.FatalErr("loading config", err)
	}

	eng, err := engine.New(cfg.Database.URL, cfg.EngineConfig())
	if err != nil {
		cli.FatalErr("creating engine", err)
	}
	defer eng.Dispose()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	conn, err := eng.Connect(ctx)
	if err != nil {
		cli.FatalErr("connecting", err)
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		cli.FatalErr("ping failed", err)
	}
	cli.Successf("%s responded in %s", eng.Dialect().Name(), time.Since(start).Round(time.Millisecond))
}
