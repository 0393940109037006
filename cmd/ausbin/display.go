package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/browser"
	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/dashboard"
	"github.com/poiesic/ausbin/dataset"
	"github.com/schollz/progressbar/v3"
)

// renderResultsTable prints ranked search results.
func renderResultsTable(results []*core.MatchResult) {
	if len(results) == 0 {
		fmt.Println("No matches found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Status", "State", "Registered", "Score", "Category"})
	for _, result := range results {
		registered := ""
		if !result.Record.RegistrationDate.IsZero() {
			registered = result.Record.RegistrationDate.Format("2006-01-02")
		}
		table.Append([]string{
			result.Record.Name,
			result.Record.Status,
			result.Record.State,
			registered,
			fmt.Sprintf("%.1f", result.Score),
			result.Category.String(),
		})
	}
	table.Render()
}

// renderRecordsTable prints plain records, without scores.
func renderRecordsTable(records []*core.BusinessName) {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Status", "State", "Registered"})
	for _, record := range records {
		registered := ""
		if !record.RegistrationDate.IsZero() {
			registered = record.RegistrationDate.Format("2006-01-02")
		}
		table.Append([]string{record.Name, record.Status, record.State, registered})
	}
	table.Render()
}

// renderStatsTable prints dataset statistics and the status distribution.
func renderStatsTable(stats *dataset.Stats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Records", fmt.Sprintf("%d", stats.Total)})
	table.Append([]string{"Unique names", fmt.Sprintf("%d", stats.UniqueNames)})
	if !stats.EarliestRegistered.IsZero() {
		table.Append([]string{"Earliest registration", stats.EarliestRegistered.Format("2006-01-02")})
		table.Append([]string{"Latest registration", stats.LatestRegistered.Format("2006-01-02")})
	}
	table.Append([]string{"Without registration date", fmt.Sprintf("%d", stats.WithoutRegistration)})
	table.Render()

	if len(stats.StatusDistribution) > 0 {
		fmt.Println()
		statusTable := tablewriter.NewWriter(os.Stdout)
		statusTable.SetHeader([]string{"Status", "Count"})
		for _, entry := range stats.StatusDistribution {
			statusTable.Append([]string{entry.Status, fmt.Sprintf("%d", entry.Count)})
		}
		statusTable.Render()
	}
}

// renderChart writes the chart for a display mode to a temp HTML file and
// opens it in the browser.
func renderChart(display string, results []*core.MatchResult) error {
	chart := dashboard.ChartForDisplay(display, results)
	if chart == nil {
		return fmt.Errorf("unknown display mode %q", display)
	}
	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	dir, err := os.MkdirTemp("", "ausbin-chart-*")
	if err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	path := filepath.Join(dir, display+".html")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := chart.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Chart written to %s\n", path)
	if err := browser.OpenFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Could not open browser: %v\n", err)
	}
	return nil
}

// fetchProgress returns a FetchAll progress callback backed by a terminal
// progress bar. The bar is created on the first report, once the total is
// known.
func fetchProgress() func(fetched, total int) {
	var bar *progressbar.ProgressBar
	return func(fetched, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Fetching register"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(fetched)
		if fetched >= total {
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
	}
}
