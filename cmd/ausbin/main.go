// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/poiesic/ausbin"
	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/dashboard"
	"github.com/poiesic/ausbin/dataset"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ausbin",
		Usage: "Explore the Australian Business Names register",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set logging level (debug, info, warn, error)",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Rank business names against a search term",
				ArgsUsage: "TERM",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Filter by registration status before ranking",
					},
					&cli.StringFlag{
						Name:    "state",
						Aliases: []string{"st"},
						Usage:   "Filter by state before ranking",
					},
					&cli.StringFlag{
						Name:    "date-from",
						Aliases: []string{"d"},
						Usage:   "Only rank names registered on or after this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:    "display",
						Aliases: []string{"v"},
						Usage:   "Display mode (table, barchart, piechart, histogram, wordcloud, chart, timeline)",
						Value:   "table",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum number of results",
						Value:   50,
					},
					&cli.IntFlag{
						Name:    "threshold",
						Aliases: []string{"t"},
						Usage:   "Minimum fuzzy match ratio (0-100)",
						Value:   50,
					},
					&cli.BoolFlag{
						Name:  "exact-only",
						Usage: "Only show exact matches",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Fetch fresh data without touching the local cache",
					},
				},
			},
			{
				Name:   "explore",
				Usage:  "Browse a sample of the register",
				Action: exploreCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "pattern",
						Aliases: []string{"p"},
						Usage:   "Only show names containing this pattern",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Number of records to show",
						Value:   20,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Sample seed (0 uses the current time)",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Fetch fresh data without touching the local cache",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show dataset statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Fetch fresh data without touching the local cache",
					},
				},
			},
			{
				Name:   "clear-cache",
				Usage:  "Drop the local record cache",
				Action: clearCacheCommand,
			},
			{
				Name:   "serve",
				Usage:  "Run the web dashboard",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8080",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newExplorer builds an Explorer from the config file and command flags.
func newExplorer(c *cli.Context, threshold, limit int) (*ausbin.Explorer, error) {
	fc, err := loadFileConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	opts := []ausbin.ExplorerOption{
		ausbin.WithRegistryConfig(fc.registryConfig()),
		ausbin.WithMatcherOptions(fc.matcherOptions(threshold, limit)...),
		ausbin.WithFetchProgress(fetchProgress()),
	}

	cachePath := ""
	if c.Bool("no-cache") {
		opts = append(opts, ausbin.WithInMemoryCache())
	} else {
		cachePath, err = fc.cachePath()
		if err != nil {
			return nil, err
		}
	}

	return ausbin.NewExplorer(cachePath, opts...)
}

func searchCommand(c *cli.Context) error {
	term := strings.TrimSpace(c.Args().First())
	if term == "" {
		return fmt.Errorf("search term is required")
	}

	// Flags override the config file only when given on the command
	// line; the displayed flag defaults match the built-in fallbacks.
	threshold, limit := 0, 0
	if c.IsSet("threshold") {
		threshold = c.Int("threshold")
	}
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}

	explorer, err := newExplorer(c, threshold, limit)
	if err != nil {
		return fmt.Errorf("failed to set up explorer: %w", err)
	}
	defer explorer.Close()

	var filters []dataset.Filter
	if status := c.String("status"); status != "" {
		filters = append(filters, dataset.ByStatus(status))
	}
	if state := c.String("state"); state != "" {
		filters = append(filters, dataset.ByState(state))
	}
	if dateFrom := c.String("date-from"); dateFrom != "" {
		since, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return fmt.Errorf("invalid date-from %q: expected YYYY-MM-DD", dateFrom)
		}
		filters = append(filters, dataset.RegisteredSince(since))
	}

	results, err := explorer.Search(c.Context, term, filters...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.Bool("exact-only") {
		exact := results[:0]
		for _, result := range results {
			if result.Category == core.CategoryExact {
				exact = append(exact, result)
			}
		}
		results = exact
	}

	display := c.String("display")
	if display == "" || display == "table" {
		renderResultsTable(results)
		return nil
	}
	return renderChart(display, results)
}

func exploreCommand(c *cli.Context) error {
	explorer, err := newExplorer(c, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to set up explorer: %w", err)
	}
	defer explorer.Close()

	records, err := explorer.Names(c.Context, false)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if pattern := c.String("pattern"); pattern != "" {
		records = dataset.Apply(records, dataset.MatchPattern(pattern))
	}

	limit := c.Int("limit")
	if len(records) > limit {
		seed := c.Int64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		records = dataset.Sample(records, limit, seed)
	}

	renderRecordsTable(records)
	return nil
}

func statsCommand(c *cli.Context) error {
	explorer, err := newExplorer(c, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to set up explorer: %w", err)
	}
	defer explorer.Close()

	stats, err := explorer.Stats(c.Context)
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	renderStatsTable(stats)

	if meta, err := explorer.Meta(c.Context); err == nil {
		fmt.Printf("\nCache fetched %s from resource %s\n",
			meta.FetchedAt.Format(time.RFC3339), meta.Source)
	}
	return nil
}

func clearCacheCommand(c *cli.Context) error {
	fc, err := loadFileConfig(c.String("config"))
	if err != nil {
		return err
	}
	cachePath, err := fc.cachePath()
	if err != nil {
		return err
	}

	explorer, err := ausbin.NewExplorer(cachePath, ausbin.WithRegistryConfig(fc.registryConfig()))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer explorer.Close()

	if err := explorer.ClearCache(c.Context); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("Cache cleared.")
	return nil
}

func serveCommand(c *cli.Context) error {
	explorer, err := newExplorer(c, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to set up explorer: %w", err)
	}
	defer explorer.Close()

	service, err := dashboard.NewService(explorer)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	addr := c.String("addr")
	slog.Info("dashboard listening", "addr", addr)
	return http.ListenAndServe(addr, service)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
