package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/deckrepo/deckrepo-manager/internal/config"
	"github.com/deckrepo/deckrepo-manager/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	rootFlag := flag.String("root", "", "Install directory (overrides config)")
	flag.Parse()

	path := *configFlag
	if path == "" {
		path = config.DefaultConfigPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *rootFlag != "" {
		settings.InstallPath = *rootFlag
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
