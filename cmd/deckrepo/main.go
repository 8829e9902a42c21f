package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/deckrepo/deckrepo-manager/internal/config"
	"github.com/deckrepo/deckrepo-manager/internal/download"
	"github.com/deckrepo/deckrepo-manager/internal/install"
	"github.com/deckrepo/deckrepo-manager/internal/model"
	"github.com/deckrepo/deckrepo-manager/internal/repo"
)

func main() {
	// Command line flags
	var (
		listFlag      = flag.Bool("list", false, "List catalog videos")
		kindFlag      = flag.String("kind", "boot", "Video kind to operate on: boot or suspend")
		searchFlag    = flag.String("search", "", "Filter catalog titles by substring")
		refreshFlag   = flag.Bool("refresh", false, "Force a network catalog refresh")
		installFlag   = flag.String("install", "", "Install video(s) by catalog id (comma-separated)")
		installedFlag = flag.Bool("installed", false, "List installed videos")
		deleteFlag    = flag.String("delete", "", "Delete an installed video by filename")
		rootFlag      = flag.String("root", "", "Install directory (overrides config)")
		configFlag    = flag.String("config", "", "Path to config file")
		verboseFlag   = flag.Bool("verbose", false, "Show debug output")
	)

	flag.Parse()

	if !*listFlag && !*installedFlag && *installFlag == "" && *deleteFlag == "" {
		fmt.Println("Deck Repo Manager - Boot and suspend videos for the Steam Deck")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  deckrepo -list [-kind boot|suspend] [-search <text>] [-refresh]")
		fmt.Println("  deckrepo -install <id>[,<id>...]")
		fmt.Println("  deckrepo -installed")
		fmt.Println("  deckrepo -delete <filename>")
		fmt.Println()
		fmt.Println("For interactive mode, use: deckrepo-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *rootFlag != "" {
		settings.InstallPath = *rootFlag
	}

	kind := model.KindBoot
	if *kindFlag == "suspend" {
		kind = model.KindSuspend
	} else if *kindFlag != "boot" {
		fmt.Fprintf(os.Stderr, "Unknown kind %q (want boot or suspend)\n", *kindFlag)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	installer := install.New(settings.ResolveInstallRoot(), settings.ThumbnailMaxSize)

	switch {
	case *listFlag:
		runList(ctx, settings, kind, *searchFlag, *refreshFlag)

	case *installFlag != "":
		runInstall(ctx, settings, installer, strings.Split(*installFlag, ","), *refreshFlag)

	case *installedFlag:
		runInstalled(installer)

	case *deleteFlag != "":
		if err := installer.Delete(*deleteFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", *deleteFlag)
	}
}

// runList prints catalog items of one kind, optionally title-filtered.
func runList(ctx context.Context, settings *config.Settings, kind model.VideoKind, search string, refresh bool) {
	client := repo.NewClient(settings)
	snap, err := client.FetchPosts(ctx, refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching catalog: %v\n", err)
		os.Exit(1)
	}

	if snap.Source == model.SourceCache {
		fmt.Println("(showing cached catalog)")
	}

	items := model.FilterItems(snap.Items, kind, search)
	if len(items) == 0 {
		fmt.Println("No videos match.")
		return
	}

	for _, it := range items {
		fmt.Printf("%-12s %-40s by %-20s ♥ %-5d ↓ %d\n",
			it.ID, truncate(it.Title, 40), truncate(it.DisplayAuthor(), 20), it.Likes, it.Downloads)
	}
	fmt.Printf("\n%d video(s)\n", len(items))
}

// runInstall downloads and installs the given catalog ids.
func runInstall(ctx context.Context, settings *config.Settings, installer *install.Installer, ids []string, refresh bool) {
	client := repo.NewClient(settings)
	snap, err := client.FetchPosts(ctx, refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching catalog: %v\n", err)
		os.Exit(1)
	}

	var items []model.CatalogItem
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		it := snap.FindByID(id)
		if it == nil {
			fmt.Fprintf(os.Stderr, "Error: no catalog item with id %q\n", id)
			os.Exit(1)
		}
		items = append(items, *it)
	}

	var failed atomic.Bool
	sink := download.SinkFuncs{
		Progress: func(itemID string, percent int) {
			fmt.Printf("\r%s %3d%%", itemID, percent)
		},
		Done: func(itemID string, result install.Result) {
			if result.OK {
				fmt.Printf("\r✅ %s: %s\n", itemID, result.Message)
			} else {
				failed.Store(true)
				fmt.Printf("\r❌ %s: %s\n", itemID, result.Message)
			}
		},
	}

	orch := download.NewOrchestrator(installer, sink, settings.MaxConcurrentInstalls)
	if err := orch.InstallAll(ctx, items); err != nil {
		fmt.Fprintf(os.Stderr, "Error during install: %v\n", err)
		os.Exit(1)
	}
	if ctx.Err() != nil {
		fmt.Println("\nInstall cancelled.")
		os.Exit(130)
	}
	if failed.Load() {
		os.Exit(1)
	}
}

// runInstalled prints the current install root contents.
func runInstalled(installer *install.Installer) {
	entries, err := installer.ListInstalled()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading install directory: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Printf("Nothing installed in %s\n", installer.Root())
		return
	}

	fmt.Printf("Installed in %s:\n\n", installer.Root())
	for _, e := range entries {
		kind := "boot"
		if e.Kind == model.KindSuspend {
			kind = "suspend"
		}
		fmt.Printf("%-40s %-8s %8.2f MB  %s\n",
			e.Filename, kind, e.SizeMB(), truncate(e.DisplayTitle(), 40))
	}
}

// truncate shortens s to at most n runes. Titles are user-submitted and
// often multi-byte, so slicing happens on rune boundaries.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
