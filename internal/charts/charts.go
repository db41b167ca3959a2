// Package charts renders evaluation sweeps and leaderboards as interactive
// HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/evaluation"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Smooth     bool     // Smooth line (for line charts)
	Colors     []string // Series colors, cycled
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     false,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// SeriesData is one named line sharing the x axis of the others.
type SeriesData struct {
	Name   string
	Points []DataPoint
}

func (c ChartConfig) color(i int) string {
	if len(c.Colors) == 0 {
		return ""
	}
	return c.Colors[i%len(c.Colors)]
}

func (c ChartConfig) globalOptions() []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.Width,
			Height: c.Height,
			Theme:  c.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: c.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(c.ShowLegend),
		}),
	}
}

// LineChart writes a multi-series line chart. The first series supplies the
// x axis labels.
func LineChart(w io.Writer, series []SeriesData, config ChartConfig) error {
	if len(series) == 0 {
		return fmt.Errorf("no data series provided")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(config.globalOptions()...)

	xLabels := make([]string, len(series[0].Points))
	for i, point := range series[0].Points {
		xLabels[i] = point.Label
	}
	line.SetXAxis(xLabels)

	for i, s := range series {
		yData := make([]opts.LineData, len(s.Points))
		for j, point := range s.Points {
			yData[j] = opts.LineData{Value: point.Value}
		}
		line.AddSeries(s.Name, yData).
			SetSeriesOptions(
				charts.WithLineChartOpts(opts.LineChart{
					Smooth: opts.Bool(config.Smooth),
				}),
				charts.WithLabelOpts(opts.Label{
					Show: opts.Bool(false),
				}),
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: config.color(i),
				}),
			)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// BarChart writes a single-series bar chart.
func BarChart(w io.Writer, name string, data []DataPoint, config ChartConfig) error {
	if len(data) == 0 {
		return fmt.Errorf("no data points provided")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOptions()...)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(name, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: config.color(0),
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// SweepSeries turns an evaluation report into one line per metric, with a
// point per grid cell in sweep order.
func SweepSeries(report *evaluation.Report) []SeriesData {
	series := []SeriesData{
		{Name: "Hero NDCG"},
		{Name: "Skill NDCG"},
		{Name: "Hero coverage"},
		{Name: "Skill coverage"},
	}
	for _, r := range report.Results {
		label := r.Params.String()
		series[0].Points = append(series[0].Points, DataPoint{Label: label, Value: r.Hero.NDCG})
		series[1].Points = append(series[1].Points, DataPoint{Label: label, Value: r.Skill.NDCG})
		series[2].Points = append(series[2].Points, DataPoint{Label: label, Value: r.Hero.Coverage})
		series[3].Points = append(series[3].Points, DataPoint{Label: label, Value: r.Skill.Coverage})
	}
	return series
}

// RankingPoints converts a leaderboard into win rate percentages.
func RankingPoints(ranks []aggregate.EntityRank) []DataPoint {
	points := make([]DataPoint, len(ranks))
	for i, r := range ranks {
		points[i] = DataPoint{Label: r.Name, Value: r.WinRate * 100}
	}
	return points
}

// RenderSweep writes the evaluation sweep chart to outputPath.
func RenderSweep(report *evaluation.Report, outputPath string) error {
	config := DefaultChartConfig()
	config.Title = "Synergy evaluation sweep"
	config.Subtitle = fmt.Sprintf("best: %s, %d train / %d validation battles",
		report.Best.Params, report.TrainBattles, report.ValidationBattles)

	return renderFile(outputPath, func(w io.Writer) error {
		return LineChart(w, SweepSeries(report), config)
	})
}

// RenderRanking writes a win rate bar chart for the leaderboard to outputPath.
func RenderRanking(kind aggregate.Kind, ranks []aggregate.EntityRank, outputPath string) error {
	config := DefaultChartConfig()
	config.Title = fmt.Sprintf("Top %ss by win rate", kind)
	config.ShowLegend = false

	return renderFile(outputPath, func(w io.Writer) error {
		return BarChart(w, "Win Rate (%)", RankingPoints(ranks), config)
	})
}

func renderFile(outputPath string, render func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return render(f)
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
