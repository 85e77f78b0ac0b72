// aggregator.go
package main

import (
	"math"
	"sort"
	"time"

	"github.com/aquastat/water_dashboard/domain/models"
)

// axisHeadroom pads the y-axis above the tallest grouped bar.
const axisHeadroom = 1.1

// defaultAxisMax keeps the axis renderable when the filtered table is
// empty.
const defaultAxisMax = 1.0

// histogramBins matches the source chart's fixed bin count.
const histogramBins = 50

// AggregateMonthlyByArea groups the filtered rows by (Time, Area_Code) and
// sums raw monthly consumption, one frame per timestamp.
func AggregateMonthlyByArea(t models.FilteredTable) models.AnimatedBarView {
	return aggregateFrames(t, "monthly_water_consumption", func(i int) float64 {
		return t.Rows[i].Monthly
	})
}

// AggregateLeakageByArea is the same grouping over the derived leakage
// column.
func AggregateLeakageByArea(t models.FilteredTable) models.AnimatedBarView {
	return aggregateFrames(t, "leakage", func(i int) float64 {
		return t.Leakage[i]
	})
}

func aggregateFrames(t models.FilteredTable, measure string, value func(int) float64) models.AnimatedBarView {
	type key struct {
		ts   time.Time
		area string
	}
	sums := map[key]float64{}
	for i := range t.Rows {
		k := key{ts: t.Rows[i].Time, area: t.Rows[i].AreaCode}
		sums[k] += value(i)
	}

	byTime := map[time.Time][]models.AreaTotal{}
	maxTotal := math.Inf(-1)
	for k, total := range sums {
		byTime[k.ts] = append(byTime[k.ts], models.AreaTotal{AreaCode: k.area, Total: total})
		if total > maxTotal {
			maxTotal = total
		}
	}

	times := make([]time.Time, 0, len(byTime))
	for ts := range byTime {
		times = append(times, ts)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	frames := make([]models.BarFrame, 0, len(times))
	for _, ts := range times {
		totals := byTime[ts]
		sort.Slice(totals, func(i, j int) bool { return totals[i].AreaCode < totals[j].AreaCode })
		frames = append(frames, models.BarFrame{Time: ts, Totals: totals})
	}

	axisMax := defaultAxisMax
	if len(frames) > 0 {
		axisMax = maxTotal * axisHeadroom
	}
	return models.AnimatedBarView{Measure: measure, Frames: frames, AxisMax: axisMax}
}

// AggregateMonthlyBreakdown groups by (Month, Area_Code) summing raw
// monthly consumption for the stacked view.
func AggregateMonthlyBreakdown(t models.FilteredTable) models.StackedBarView {
	type key struct {
		month int
		area  string
	}
	sums := map[key]float64{}
	for _, r := range t.Rows {
		sums[key{month: r.Month, area: r.AreaCode}] += r.Monthly
	}
	rows := make([]models.MonthAreaTotal, 0, len(sums))
	for k, total := range sums {
		rows = append(rows, models.MonthAreaTotal{Month: k.month, AreaCode: k.area, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].AreaCode < rows[j].AreaCode
	})
	return models.StackedBarView{Rows: rows}
}

// BuildScatterView emits row-level (monthly, daily) pairs from the floored
// copies. The floor keeps the log-x and size encodings defined; the raw
// rows stay untouched.
func BuildScatterView(t models.FilteredTable) models.ScatterView {
	view := models.ScatterView{Points: make([]models.ScatterPoint, 0, t.Len())}
	for i, r := range t.Rows {
		x := t.FlooredMonthly[i]
		y := t.FlooredDaily[i]
		view.Points = append(view.Points, models.ScatterPoint{
			UserID: r.UserID,
			Time:   r.Time,
			X:      x,
			Y:      y,
			Size:   y,
		})
		if i == 0 || x < view.XMin {
			view.XMin = x
		}
		if i == 0 || x > view.XMax {
			view.XMax = x
		}
		if i == 0 || y < view.YMin {
			view.YMin = y
		}
		if i == 0 || y > view.YMax {
			view.YMax = y
		}
	}
	return view
}

// BuildHistogramView partitions raw hourly consumption into 50 equal-width
// bins over the filtered range, counted per user.
func BuildHistogramView(t models.FilteredTable) models.HistogramView {
	view := models.HistogramView{}
	if t.Len() == 0 {
		return view
	}

	min, max := t.Rows[0].Hourly, t.Rows[0].Hourly
	users := map[string]bool{}
	for _, r := range t.Rows {
		if r.Hourly < min {
			min = r.Hourly
		}
		if r.Hourly > max {
			max = r.Hourly
		}
		users[r.UserID] = true
	}
	for u := range users {
		view.UserIDs = append(view.UserIDs, u)
	}
	sort.Strings(view.UserIDs)

	width := (max - min) / histogramBins
	bins := histogramBins
	if width == 0 {
		// degenerate range: every value lands in a single bin
		bins = 1
	}
	view.Bins = make([]models.HistogramBin, bins)
	for i := range view.Bins {
		view.Bins[i] = models.HistogramBin{
			Start:  min + float64(i)*width,
			End:    min + float64(i+1)*width,
			Counts: map[string]int{},
		}
	}
	for _, r := range t.Rows {
		idx := 0
		if width > 0 {
			idx = int((r.Hourly - min) / width)
			if idx >= bins {
				idx = bins - 1 // max value closes the last bin
			}
		}
		view.Bins[idx].Counts[r.UserID]++
	}
	return view
}

// BuildViolinView groups raw daily consumption by usage type with the
// five-number summary and the full point overlay.
func BuildViolinView(t models.FilteredTable) models.ViolinView {
	byUsage := map[string][]float64{}
	for _, r := range t.Rows {
		byUsage[r.WaterUsage] = append(byUsage[r.WaterUsage], r.Daily)
	}
	usages := make([]string, 0, len(byUsage))
	for u := range byUsage {
		usages = append(usages, u)
	}
	sort.Strings(usages)

	view := models.ViolinView{}
	for _, usage := range usages {
		values := byUsage[usage]
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)
		view.Groups = append(view.Groups, models.ViolinGroup{
			Usage:  usage,
			Values: values,
			Stats: models.BoxStats{
				Min:    sorted[0],
				Q1:     calculateQuantile(sorted, 0.25),
				Median: calculateQuantile(sorted, 0.5),
				Q3:     calculateQuantile(sorted, 0.75),
				Max:    sorted[len(sorted)-1],
			},
		})
	}
	return view
}

// calculateQuantile interpolates the p-quantile of a sorted slice.
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)
	if floor == ceil {
		return sorted[int(pos)]
	}
	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	fraction := pos - floor
	return lower + fraction*(upper-lower)
}
