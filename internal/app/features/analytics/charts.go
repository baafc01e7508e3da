package analytics

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const chartHeight = "320px"

// Chart names served under /analytics/charts/.
const (
	ChartRequests = "requests"
	ChartPaths    = "paths"
	ChartRoles    = "roles"
)

// Charts lists the chart names in dashboard order.
var Charts = []string{ChartRequests, ChartPaths, ChartRoles}

// Chart is a go-echarts chart.
type Chart interface {
	Render(w io.Writer) error
}

// BuildChart returns the named chart for sum, or false for unknown names.
func BuildChart(name string, sum Summary) (Chart, bool) {
	switch name {
	case ChartRequests:
		return barChart("Permintaan per hari", fmt.Sprintf("%d hari terakhir", Days), "Permintaan", sum.Requests), true
	case ChartPaths:
		return barChart("Path tersibuk", fmt.Sprintf("%d teratas", TopPaths), "Permintaan", sum.Paths), true
	case ChartRoles:
		return pieChart("Pengguna per peran", "Pengguna", sum.Roles), true
	}
	return nil, false
}

// RenderChart writes the named chart as a standalone HTML page.
func RenderChart(w io.Writer, name string, sum Summary) error {
	c, ok := BuildChart(name, sum)
	if !ok {
		return fmt.Errorf("analytics: unknown chart %q", name)
	}
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return fmt.Errorf("analytics: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}
}

func barChart(title, subtitle, series string, buckets []format.Bucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title, subtitle)...)
	x := make([]string, len(buckets))
	data := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		x[i] = b.Key
		data[i] = opts.BarData{Name: b.Key, Value: b.Count}
	}
	bar.SetXAxis(x)
	bar.AddSeries(series, data)
	return bar
}

func pieChart(title, series string, buckets []format.Bucket) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(title, "")...)
	data := make([]opts.PieData, len(buckets))
	for i, b := range buckets {
		data[i] = opts.PieData{Name: b.Key, Value: b.Count}
	}
	pie.AddSeries(series, data)
	return pie
}
