package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"picgrip/internal/config"
	"picgrip/internal/eventbus"
	"picgrip/internal/pixabay"
	"picgrip/internal/search"
	"picgrip/internal/ui"
)

func main() {
	var configPath string
	var keyword string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&keyword, "keyword", "", "Keyword to search on startup")
	flag.Parse()

	if keyword == "" && flag.NArg() > 0 {
		keyword = flag.Arg(0)
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, err := newFileLogger("picgrip.log")
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Load configuration
	configSvc := config.NewConfigService()
	cfg := loadOrCreateConfig(configSvc, configPath, logger)

	// The API key may come from the environment instead of the config.
	if cfg.API.Key == "" {
		cfg.API.Key = os.Getenv("PIXABAY_API_KEY")
	}
	if cfg.API.Key == "" {
		fmt.Println("No API key configured: set api.key in the config file or PIXABAY_API_KEY")
		os.Exit(1)
	}

	// Create event bus
	bus := eventbus.New(logger)

	// Create the photo API client
	client, err := pixabay.NewClient(pixabay.Options{
		BaseURL:        cfg.API.BaseURL,
		Key:            cfg.API.Key,
		KeywordsURL:    cfg.API.KeywordsURL,
		PerPage:        cfg.API.PerPage,
		Timeout:        time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		RequestsPerSec: cfg.API.RequestsPerSec,
		CachePages:     cfg.API.CachePages,
	}, logger)
	if err != nil {
		fmt.Printf("Error creating API client: %v\n", err)
		os.Exit(1)
	}

	// Start the search controller
	controller := search.NewController(bus, client, logger)
	controller.Start(ctx)

	// Create UI model and Bubble Tea program
	uiModel := ui.NewModel(cfg, bus, controller.Current())
	p := tea.NewProgram(uiModel, tea.WithAltScreen())

	// Forward published states to the UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	unsubscribe := bus.Subscribe(eventbus.EventStateChanged, func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn("event channel full, dropping event")
		}
	})
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Kick off an initial search if one was requested
	if keyword != "" {
		bus.Publish(eventbus.SearchRequestedEvent{Keyword: keyword})
	}

	// Run the UI
	if _, err := p.Run(); err != nil {
		logger.Error("error running program", zap.Error(err))
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup
	cancel()
	controller.Dispose()
	unsubscribe()
	bus.Close()
	close(eventChan)
	logger.Info("exited normally")
}

// newFileLogger builds a zap logger writing to path.
func newFileLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

// loadOrCreateConfig loads the config from an explicit path, the default
// location, or falls back to defaults and writes them out.
func loadOrCreateConfig(configSvc config.ConfigService, path string, logger *zap.Logger) *config.Config {
	if path != "" {
		cfg, err := configSvc.LoadFromPath(path)
		if err != nil {
			fmt.Printf("Error loading config %s: %v\n", path, err)
			os.Exit(1)
		}
		return cfg
	}

	cfg, err := configSvc.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", zap.Error(err))
		cfg = config.DefaultConfig()
	}

	// Persist defaults so the user has a file to edit.
	if err := configSvc.Save(cfg); err != nil {
		logger.Warn("failed to save config", zap.Error(err))
	}

	return cfg
}
