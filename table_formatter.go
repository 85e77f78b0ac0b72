// table_formatter.go
package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aquastat/water_dashboard/domain/models"
)

var tableHeader = table.Row{
	"User_ID", "Area_Code", "Device_ID", "Water_Usage", "Time",
	"Monthly_Water_Consumption", "Daily_Water_Consumption", "Hourly_Water_Consumption",
	"Year", "Month", "Day", "Leakage",
}

func buildFilteredTable(t models.FilteredTable) table.Writer {
	w := table.NewWriter()
	w.AppendHeader(tableHeader)
	for i, r := range t.Rows {
		w.AppendRow(table.Row{
			r.UserID, r.AreaCode, r.DeviceID, r.WaterUsage,
			r.Time.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.3f", r.Monthly),
			fmt.Sprintf("%.3f", r.Daily),
			fmt.Sprintf("%.3f", r.Hourly),
			r.Year, r.Month, r.Day,
			fmt.Sprintf("%.3f", t.Leakage[i]),
		})
	}
	w.SetStyle(table.StyleDefault)
	return w
}

// GenerateFilteredTable renders the filtered rows (true values, leakage
// included) as an ascii table.
func GenerateFilteredTable(t models.FilteredTable) string {
	return buildFilteredTable(t).Render()
}

// GenerateFilteredTableHTML renders the same table for the dashboard page.
func GenerateFilteredTableHTML(t models.FilteredTable) string {
	return buildFilteredTable(t).RenderHTML()
}
