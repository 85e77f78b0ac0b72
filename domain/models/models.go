package models

import "time"

// Canonical column names after header normalization.
const (
	ColUserID     = "user_id"
	ColAreaCode   = "area_code"
	ColDeviceID   = "device_id"
	ColWaterUsage = "water_usage"
	ColTime       = "time"
	ColMonthly    = "monthly_water_consumption"
	ColDaily      = "daily_water_consumption"
	ColHourly     = "hourly_water_consumption"
)

// Record is one row of the consumption table. Year/Month/Day are derived
// from Time once at load, so calendar filters don't re-parse per change.
type Record struct {
	UserID     string
	AreaCode   string
	DeviceID   string
	WaterUsage string
	Time       time.Time
	Monthly    float64
	Daily      float64
	Hourly     float64
	Year       int
	Month      int
	Day        int
}

// Dataset is the loaded table. It is never mutated after load; every
// transformation downstream copies, so concurrent sessions can share it.
type Dataset struct {
	Source      string
	Fingerprint string
	Rows        []Record
}

// FilterSelection holds the resolved picks per dimension. An empty slice
// means "no constraint on this dimension", not "match nothing".
type FilterSelection struct {
	UserIDs     []string
	AreaCodes   []string
	DeviceIDs   []string
	WaterUsages []string
	Years       []int
	Months      []int
	Days        []int
}

// FilteredTable is the engine output. Rows keep the true values; Leakage is
// computed per row; FlooredMonthly/FlooredDaily are the epsilon-floored
// copies that only log/size-encoded views may read.
type FilteredTable struct {
	Rows           []Record
	Leakage        []float64
	FlooredMonthly []float64
	FlooredDaily   []float64
}

func (t FilteredTable) Len() int { return len(t.Rows) }

// AreaTotal is one grouped sum inside a frame.
type AreaTotal struct {
	AreaCode string
	Total    float64
}

// BarFrame is the grouped result for a single timestamp.
type BarFrame struct {
	Time   time.Time
	Totals []AreaTotal
}

// AnimatedBarView feeds the per-timestamp bar charts (consumption and
// leakage). AxisMax carries the 1.1 headroom already applied.
type AnimatedBarView struct {
	Measure string
	Frames  []BarFrame
	AxisMax float64
}

// MonthAreaTotal is one cell of the stacked monthly breakdown.
type MonthAreaTotal struct {
	Month    int
	AreaCode string
	Total    float64
}

type StackedBarView struct {
	Rows []MonthAreaTotal
}

// ScatterPoint carries the floored pair. Size mirrors Y like the size
// encoding of the source chart.
type ScatterPoint struct {
	UserID string
	Time   time.Time
	X      float64
	Y      float64
	Size   float64
}

type ScatterView struct {
	Points []ScatterPoint
	XMin   float64
	XMax   float64
	YMin   float64
	YMax   float64
}

// HistogramBin is an equal-width bin over hourly consumption.
type HistogramBin struct {
	Start  float64
	End    float64
	Counts map[string]int // per user id
}

type HistogramView struct {
	Bins    []HistogramBin
	UserIDs []string
}

// BoxStats are the five-number summary for one violin group.
type BoxStats struct {
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// ViolinGroup keeps the raw points alongside the summary so the renderer
// can overlay them.
type ViolinGroup struct {
	Usage  string
	Values []float64
	Stats  BoxStats
}

type ViolinView struct {
	Groups []ViolinGroup
}

// DashboardResult is everything one recomputation hands to the
// presentation layer.
type DashboardResult struct {
	Filtered         FilteredTable
	MonthlyByArea    AnimatedBarView
	MonthlyBreakdown StackedBarView
	LeakageByArea    AnimatedBarView
	Scatter          ScatterView
	Histogram        HistogramView
	Violin           ViolinView
}
