package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/homequest-decor/internal/cli"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/config"
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 && args[0] == "serve" {
		runServe(args[1:])
		return
	}
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		printUsage()
		return
	}

	flags, err := cli.ParseOptimizeFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg := loadConfig(flags.ConfigPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.RunOptimize(ctx, cfg, flags, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runServe(args []string) {
	flags, err := cli.ParseServeFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg := loadConfig(flags.ConfigPath)
	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadOrEnvWithPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func printUsage() {
	fmt.Println("Home Quest Decoration Optimizer")
	fmt.Println("===============================")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  decor-optimizer [flags] [NAME=QTY ...]   Allocate decorations and print the result")
	fmt.Println("  decor-optimizer serve [flags]            Run the HTTP API")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  decor-optimizer -towns town1,town2 Park=4 Forest=2")
	fmt.Println("  decor-optimizer -import owned.csv -strategy balanced -valhalla-only")
	fmt.Println("  decor-optimizer -import owned.json -save-profile main -export plan.csv")
	fmt.Println("  decor-optimizer -profile main")
	fmt.Println("  decor-optimizer serve -port 8080")
	fmt.Println()
	fmt.Println("Run 'decor-optimizer -h' or 'decor-optimizer serve -h' for all flags.")
}
