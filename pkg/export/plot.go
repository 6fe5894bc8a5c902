package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/filetrail/pkg/trail"
)

// PlotFileName is the interactive activity chart written alongside the
// summary.
const PlotFileName = "activity.html"

const monthFormat = "2006-01"

// WriteActivityPlot renders a commits-per-month bar chart for the tracked
// file to dir/activity.html.
func WriteActivityPlot(dir string, tracked string, revisions []trail.Revision) error {
	chart := buildActivityChart(tracked, revisions)

	file, err := os.Create(filepath.Join(dir, PlotFileName))
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	renderErr := chart.Render(file)

	closeErr := file.Close()
	if renderErr != nil {
		return fmt.Errorf("render plot: %w", renderErr)
	}

	if closeErr != nil {
		return fmt.Errorf("write plot: %w", closeErr)
	}

	return nil
}

// buildActivityChart groups revisions by author month and builds the bar
// chart.
func buildActivityChart(tracked string, revisions []trail.Revision) *charts.Bar {
	if len(revisions) == 0 {
		return createEmptyActivityChart(tracked)
	}

	counts := make(map[string]int)
	for _, rev := range revisions {
		counts[rev.Author.When.Format(monthFormat)]++
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}

	sort.Strings(months)

	barData := make([]opts.BarData, len(months))
	for i, month := range months {
		barData[i] = opts.BarData{Value: counts[month]}
	}

	const rotateDegrees = 45

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "File Activity",
			Subtitle: tracked,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Month",
			AxisLabel: &opts.AxisLabel{
				Rotate: rotateDegrees, // Rotate labels to fit long ranges.
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)
	bar.SetXAxis(months)
	bar.AddSeries("Commits", barData)

	return bar
}

func createEmptyActivityChart(tracked string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "File Activity",
			Subtitle: "No data for " + tracked,
		}),
	)

	return bar
}
