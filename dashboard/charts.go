package dashboard

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/poiesic/ausbin/core"
	"github.com/poiesic/ausbin/dataset"
)

// Renderer is satisfied by every go-echarts chart type.
type Renderer interface {
	Render(w io.Writer) error
}

const topScoresShown = 20

// scoreBar charts the top match scores, one bar per result name.
func scoreBar(results []*core.MatchResult) Renderer {
	shown := results
	if len(shown) > topScoresShown {
		shown = shown[:topScoresShown]
	}

	names := make([]string, 0, len(shown))
	values := make([]opts.BarData, 0, len(shown))
	for _, result := range shown {
		names = append(names, result.Record.Name)
		values = append(values, opts.BarData{Value: result.Score})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top match scores"}))
	bar.SetXAxis(names).AddSeries("Score", values)
	return bar
}

// categoryPie charts the distribution of match categories.
func categoryPie(results []*core.MatchResult) Renderer {
	counts := make(map[string]int)
	for _, result := range results {
		counts[result.Category.String()]++
	}

	values := make([]opts.PieData, 0, len(counts))
	for _, category := range []core.MatchCategory{core.CategoryExact, core.CategoryContains, core.CategoryFuzzy} {
		if count := counts[category.String()]; count > 0 {
			values = append(values, opts.PieData{Name: category.String(), Value: count})
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Match categories"}))
	pie.AddSeries("Categories", values)
	return pie
}

// scoreHistogram buckets match scores into 10-point bands.
func scoreHistogram(results []*core.MatchResult) Renderer {
	buckets := make([]int, 10)
	for _, result := range results {
		idx := int(result.Score) / 10
		if idx > 9 {
			idx = 9
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx]++
	}

	labels := make([]string, 0, len(buckets))
	values := make([]opts.BarData, 0, len(buckets))
	for i, count := range buckets {
		labels = append(labels, fmt.Sprintf("%d-%d", i*10, i*10+10))
		values = append(values, opts.BarData{Value: count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Score distribution"}))
	bar.SetXAxis(labels).AddSeries("Matches", values)
	return bar
}

// nameWordCloud charts word frequencies across matched names.
func nameWordCloud(records []*core.BusinessName) Renderer {
	freqs := dataset.WordFrequencies(records, 100)

	values := make([]opts.WordCloudData, 0, len(freqs))
	for _, freq := range freqs {
		values = append(values, opts.WordCloudData{Name: freq.Word, Value: freq.Count})
	}

	cloud := charts.NewWordCloud()
	cloud.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Name word frequencies"}))
	cloud.AddSeries("Words", values)
	return cloud
}

// statusChart charts the status distribution of a record set.
func statusChart(records []*core.BusinessName) Renderer {
	stats := dataset.Summarize(records)

	labels := make([]string, 0, len(stats.StatusDistribution))
	values := make([]opts.BarData, 0, len(stats.StatusDistribution))
	for _, entry := range stats.StatusDistribution {
		labels = append(labels, entry.Status)
		values = append(values, opts.BarData{Value: entry.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Status distribution"}))
	bar.SetXAxis(labels).AddSeries("Records", values)
	return bar
}

// registrationTimeline charts registrations per year.
func registrationTimeline(records []*core.BusinessName) Renderer {
	years := dataset.RegistrationsByYear(records)

	labels := make([]string, 0, len(years))
	values := make([]opts.LineData, 0, len(years))
	for _, entry := range years {
		labels = append(labels, entry.Status)
		values = append(values, opts.LineData{Value: entry.Count})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Registrations by year"}))
	line.SetXAxis(labels).AddSeries("Registrations", values)
	return line
}

// ChartForDisplay builds the chart for a display mode, or nil when the mode
// is tabular.
func ChartForDisplay(display string, results []*core.MatchResult) Renderer {
	switch display {
	case "barchart":
		return scoreBar(results)
	case "piechart":
		return categoryPie(results)
	case "histogram":
		return scoreHistogram(results)
	case "wordcloud":
		return nameWordCloud(matchedRecords(results))
	case "chart":
		return statusChart(matchedRecords(results))
	case "timeline":
		return registrationTimeline(matchedRecords(results))
	default:
		return nil
	}
}

func matchedRecords(results []*core.MatchResult) []*core.BusinessName {
	records := make([]*core.BusinessName, 0, len(results))
	for _, result := range results {
		records = append(records, result.Record)
	}
	return records
}
