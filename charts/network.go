package charts

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Fixed distribution topology: one tank feeds one main device, four
// pipelines serve four areas, each area serves three users with one
// device each. The graph is static and independent of the loaded data.
const (
	pipelineCount    = 4
	usersPerPipeline = 3
)

// NewNetworkGraph builds the water distribution flowchart.
func NewNetworkGraph() *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Water Distribution Flowchart"}),
	)

	nodes := []opts.GraphNode{
		{Name: "Water Tank", SymbolSize: 40, ItemStyle: &opts.ItemStyle{Color: "lightblue"}},
		{Name: "Main Device", SymbolSize: 35, ItemStyle: &opts.ItemStyle{Color: "purple"}},
	}
	links := []opts.GraphLink{
		{Source: "Water Tank", Target: "Main Device"},
	}

	for i := 1; i <= pipelineCount; i++ {
		pipeline := fmt.Sprintf("Pipeline %d", i)
		area := fmt.Sprintf("Area %d", i)
		nodes = append(nodes,
			opts.GraphNode{Name: pipeline, SymbolSize: 25, ItemStyle: &opts.ItemStyle{Color: "khaki"}},
			opts.GraphNode{Name: area, SymbolSize: 25, ItemStyle: &opts.ItemStyle{Color: "lightpink"}},
		)
		links = append(links,
			opts.GraphLink{Source: "Main Device", Target: pipeline},
			opts.GraphLink{Source: pipeline, Target: area},
		)
	}

	userIdx := 1
	for i := 1; i <= pipelineCount; i++ {
		area := fmt.Sprintf("Area %d", i)
		for j := 0; j < usersPerPipeline; j++ {
			user := fmt.Sprintf("User %d", userIdx)
			device := fmt.Sprintf("Device %d", userIdx)
			nodes = append(nodes,
				opts.GraphNode{Name: user, SymbolSize: 15, ItemStyle: &opts.ItemStyle{Color: "lightgray"}},
				opts.GraphNode{Name: device, SymbolSize: 15, ItemStyle: &opts.ItemStyle{Color: "orange"}},
			)
			links = append(links,
				opts.GraphLink{Source: area, Target: user},
				opts.GraphLink{Source: user, Target: device},
			)
			userIdx++
		}
	}

	graph.AddSeries("distribution", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout: "force",
			Force:  &opts.GraphForce{Repulsion: 120},
		}),
	)
	return graph
}
