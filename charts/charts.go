// Package charts turns the computed dashboard views into go-echarts
// specifications. Nothing here recomputes data; the views arrive final.
package charts

import (
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aquastat/water_dashboard/domain/models"
)

const scatterSizeMax = 55.0

// NewMonthlyByAreaBar renders the (time, area) consumption sums, one
// series per timestamp so the frame progression stays visible.
func NewMonthlyByAreaBar(view models.AnimatedBarView) *charts.Bar {
	return newFrameBar(view,
		"Monthly Water Consumption by Area Code",
		"Monthly Water Consumption (Liters)")
}

// NewLeakageBar renders the (time, area) leakage sums.
func NewLeakageBar(view models.AnimatedBarView) *charts.Bar {
	return newFrameBar(view,
		"Monthly Leakage by Area Code",
		"Leakage (Liters)")
}

func newFrameBar(view models.AnimatedBarView, title, yName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Area Code"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Max: view.AxisMax}),
	)

	areas := frameAreaCodes(view)
	bar.SetXAxis(areas)
	for _, frame := range view.Frames {
		data := make([]opts.BarData, len(areas))
		totals := map[string]float64{}
		seen := map[string]bool{}
		for _, t := range frame.Totals {
			totals[t.AreaCode] = t.Total
			seen[t.AreaCode] = true
		}
		for i, area := range areas {
			if seen[area] {
				data[i] = opts.BarData{Value: totals[area]}
			} else {
				data[i] = opts.BarData{Value: nil}
			}
		}
		bar.AddSeries(frame.Time.Format("2006-01-02 15:04"), data)
	}
	return bar
}

func frameAreaCodes(view models.AnimatedBarView) []string {
	seen := map[string]bool{}
	areas := []string{}
	for _, frame := range view.Frames {
		for _, t := range frame.Totals {
			if !seen[t.AreaCode] {
				seen[t.AreaCode] = true
				areas = append(areas, t.AreaCode)
			}
		}
	}
	sort.Strings(areas)
	return areas
}

// NewMonthlyBreakdownBar renders the stacked per-month breakdown, one
// stacked series per area code.
func NewMonthlyBreakdownBar(view models.StackedBarView) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Monthly Water Consumption Breakdown by Area Code"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Monthly Water Consumption (Liters)"}),
	)

	months := []int{}
	areas := []string{}
	seenMonth := map[int]bool{}
	seenArea := map[string]bool{}
	totals := map[string]map[int]float64{}
	for _, row := range view.Rows {
		if !seenMonth[row.Month] {
			seenMonth[row.Month] = true
			months = append(months, row.Month)
		}
		if !seenArea[row.AreaCode] {
			seenArea[row.AreaCode] = true
			areas = append(areas, row.AreaCode)
			totals[row.AreaCode] = map[int]float64{}
		}
		totals[row.AreaCode][row.Month] = row.Total
	}
	sort.Ints(months)
	sort.Strings(areas)

	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = fmt.Sprintf("%d", m)
	}
	bar.SetXAxis(labels)
	for _, area := range areas {
		data := make([]opts.BarData, len(months))
		for i, m := range months {
			data[i] = opts.BarData{Value: totals[area][m]}
		}
		bar.AddSeries(area, data, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	}
	return bar
}

// NewConsumptionScatter renders monthly vs daily consumption on a log x
// axis, sized by daily consumption, one series per user. The view's
// values are already epsilon-floored, so the log axis is defined.
func NewConsumptionScatter(view models.ScatterView) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Water Consumption Over Time"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Monthly Water Consumption (Liters)",
			Type: "log",
			Min:  view.XMin,
			Max:  view.XMax,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Daily Water Consumption (Liters)",
			Min:  view.YMin,
			Max:  view.YMax,
		}),
	)

	byUser := map[string][]opts.ScatterData{}
	users := []string{}
	for _, p := range view.Points {
		if _, ok := byUser[p.UserID]; !ok {
			users = append(users, p.UserID)
		}
		byUser[p.UserID] = append(byUser[p.UserID], opts.ScatterData{
			Name:       p.Time.Format("2006-01-02 15:04"),
			Value:      []interface{}{p.X, p.Y},
			SymbolSize: symbolSize(p.Size, view.YMax),
		})
	}
	sort.Strings(users)
	for _, user := range users {
		scatter.AddSeries(user, byUser[user])
	}
	return scatter
}

func symbolSize(size, max float64) int {
	if max <= 0 {
		return 4
	}
	px := int(scatterSizeMax * size / max)
	if px < 4 {
		px = 4
	}
	return px
}

// NewHourlyHistogram renders the 50-bin hourly distribution, one series
// per user over shared bin edges.
func NewHourlyHistogram(view models.HistogramView) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Histogram of Hourly Water Consumption by User"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hourly Water Consumption (Liters)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	labels := make([]string, len(view.Bins))
	for i, bin := range view.Bins {
		labels[i] = fmt.Sprintf("%.1f-%.1f", bin.Start, bin.End)
	}
	bar.SetXAxis(labels)
	for _, user := range view.UserIDs {
		data := make([]opts.BarData, len(view.Bins))
		for i, bin := range view.Bins {
			data[i] = opts.BarData{Value: bin.Counts[user]}
		}
		bar.AddSeries(user, data, charts.WithBarChartOpts(opts.BarChart{Stack: "hourly"}))
	}
	return bar
}

// NewDailyViolin approximates the violin view as a box plot per usage
// type with the raw points overlaid.
func NewDailyViolin(view models.ViolinView) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Distribution of Daily Water Consumption by Usage Type"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Usage Type"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Daily Water Consumption (Liters)"}),
	)

	labels := make([]string, len(view.Groups))
	boxes := make([]opts.BoxPlotData, len(view.Groups))
	points := []opts.ScatterData{}
	for i, g := range view.Groups {
		labels[i] = g.Usage
		boxes[i] = opts.BoxPlotData{Value: []float64{
			g.Stats.Min, g.Stats.Q1, g.Stats.Median, g.Stats.Q3, g.Stats.Max,
		}}
		for _, v := range g.Values {
			points = append(points, opts.ScatterData{
				Value:      []interface{}{g.Usage, v},
				SymbolSize: 5,
			})
		}
	}
	box.SetXAxis(labels).AddSeries("daily consumption", boxes)

	overlay := charts.NewScatter()
	overlay.SetXAxis(labels).AddSeries("points", points)
	box.Overlap(overlay)
	return box
}

// NewDashboardPage assembles every view of one recomputation plus the
// static network topology into a single page.
func NewDashboardPage(result models.DashboardResult) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Water Consumption Analysis Dashboard"
	page.AddCharts(
		NewNetworkGraph(),
		NewConsumptionScatter(result.Scatter),
		NewMonthlyByAreaBar(result.MonthlyByArea),
		NewDailyViolin(result.Violin),
		NewMonthlyBreakdownBar(result.MonthlyBreakdown),
		NewHourlyHistogram(result.Histogram),
		NewLeakageBar(result.LeakageByArea),
	)
	return page
}
