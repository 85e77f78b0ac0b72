package charts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/aquastat/water_dashboard/domain/models"
)

// DrawAreaTotalsPNG renders the per-area totals of a frame view as a PNG
// bar chart for export. Frames collapse to one total per area.
func DrawAreaTotalsPNG(view models.AnimatedBarView) ([]byte, error) {
	totals := map[string]float64{}
	for _, frame := range view.Frames {
		for _, t := range frame.Totals {
			totals[t.AreaCode] += t.Total
		}
	}
	areas := make([]string, 0, len(totals))
	for area := range totals {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	var bars []chart.Value
	maxVal := 0.0
	for _, area := range areas {
		if totals[area] > maxVal {
			maxVal = totals[area]
		}
		bars = append(bars, chart.Value{
			Value: totals[area],
			Label: area,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no data to render")
	}

	graph := chart.BarChart{
		Title: "Total Water Consumption by Area Code",
		Background: chart.Style{
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorBlue,
		},
		Height:   1024,
		Width:    2028,
		BarWidth: 60,
		Bars:     bars,
		YAxis: chart.YAxis{
			Name: "Liters",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxVal * 1.1,
			},
		},
	}
	graph.Background.StrokeWidth = 1
	graph.Background.StrokeColor = drawing.ColorFromHex("efefef")

	buffer := bytes.NewBuffer([]byte{})
	err := graph.Render(chart.PNG, buffer)
	if err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}
