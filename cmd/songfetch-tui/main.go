package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fyxsky/songfetch/internal/config"
	"github.com/fyxsky/songfetch/internal/tui"
)

func main() {
	configFlag := flag.String("config", defaultConfigPath(), "Path to TOML config file")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "songfetch.toml"
	}
	return filepath.Join(home, ".config", "songfetch", "config.toml")
}
