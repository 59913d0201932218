package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func usage() {
	fmt.Println(`uibind - compiles UI templates into Go
Usage: uibind <command> [flags] [path]

Commands:
  compile <path>   Compile every template under path
  check <path>     Report templates whose generated file is stale
  help             Show help

Flags:
  -config file     Configuration file (default <path>/uibind.json)
  -v               Verbose logging`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	switch cmd {
	case "help":
		usage()
	case "compile", "check":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		configPath := fs.String("config", "", "configuration file")
		verbose := fs.Bool("v", false, "verbose logging")
		_ = fs.Parse(os.Args[2:])
		root := "."
		if fs.NArg() > 0 {
			root = fs.Arg(0)
		}
		level := slog.LevelInfo
		if *verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		p, err := NewProject(root, *configPath, logger)
		if err != nil {
			fatal(err)
		}
		if err := p.Run(cmd == "check"); err != nil {
			fatal(err)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "uibind: %v\n", err)
	os.Exit(1)
}
