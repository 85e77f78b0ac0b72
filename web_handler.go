// web_handler.go
package main

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/aquastat/water_dashboard/charts"
	"github.com/aquastat/water_dashboard/config"
	"github.com/aquastat/water_dashboard/domain/models"
)

const defaultDatasetID = "default"

// Loaded datasets are shared read-only across requests; only registration
// and purging take the write lock.
var (
	datasetsMu  sync.RWMutex
	datasets    = map[string]*models.Dataset{}
	datasetTime = map[string]time.Time{}
)

func registerDataset(id string, ds *models.Dataset) {
	datasetsMu.Lock()
	defer datasetsMu.Unlock()
	datasets[id] = ds
	datasetTime[id] = time.Now()
}

func lookupDataset(id string) *models.Dataset {
	datasetsMu.RLock()
	defer datasetsMu.RUnlock()
	return datasets[id]
}

// findDatasetByFingerprint lets an upload of byte-identical data reuse the
// already loaded table instead of registering a copy.
func findDatasetByFingerprint(fingerprint string) (string, *models.Dataset) {
	datasetsMu.RLock()
	defer datasetsMu.RUnlock()
	for id, ds := range datasets {
		if ds.Fingerprint == fingerprint {
			return id, ds
		}
	}
	return "", nil
}

func purgeDatasets(maxAge time.Duration) {
	datasetsMu.Lock()
	defer datasetsMu.Unlock()
	for id, loaded := range datasetTime {
		if id == defaultDatasetID {
			continue
		}
		if time.Since(loaded) > maxAge {
			delete(datasets, id)
			delete(datasetTime, id)
		}
	}
}

func currentDataset(r *http.Request) (string, *models.Dataset) {
	id := r.URL.Query().Get("dataset")
	if id == "" {
		id = defaultDatasetID
	}
	return id, lookupDataset(id)
}

// dimensionQuery maps the seven filter dimensions to their query keys.
var dimensionQuery = []struct {
	Label string
	Param string
}{
	{"User ID", "user"},
	{"Area Code", "area"},
	{"Device ID", "device"},
	{"Water Usage", "usage"},
	{"Year", "year"},
	{"Month", "month"},
	{"Day", "day"},
}

func selectionFromQuery(r *http.Request, options DimensionOptions) models.FilterSelection {
	q := r.URL.Query()
	allSet := func(param string) bool { return q.Get("all_"+param) == "1" }
	return models.FilterSelection{
		UserIDs:     ResolveSelection(options.UserIDs, q["user"], allSet("user")),
		AreaCodes:   ResolveSelection(options.AreaCodes, q["area"], allSet("area")),
		DeviceIDs:   ResolveSelection(options.DeviceIDs, q["device"], allSet("device")),
		WaterUsages: ResolveSelection(options.WaterUsages, q["usage"], allSet("usage")),
		Years:       ResolveIntSelection(options.Years, parseIntPicks(q["year"]), allSet("year")),
		Months:      ResolveIntSelection(options.Months, parseIntPicks(q["month"]), allSet("month")),
		Days:        ResolveIntSelection(options.Days, parseIntPicks(q["day"]), allSet("day")),
	}
}

type optionItem struct {
	Value    string
	Selected bool
}

type dimensionForm struct {
	Label   string
	Param   string
	AllSet  bool
	Options []optionItem
}

type dashboardPageData struct {
	DatasetID  string
	Dimensions []dimensionForm
	RowCount   int
	ChartsURL  string
	ExportURL  string
	Table      template.HTML
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Water Consumption Analysis Dashboard</title></head>
<body>
<h1>Water Consumption Analysis Dashboard</h1>
<form method="get" action="/">
{{if .DatasetID}}<input type="hidden" name="dataset" value="{{.DatasetID}}">{{end}}
{{range .Dimensions}}<fieldset>
<legend>{{.Label}}</legend>
<label><input type="checkbox" name="all_{{.Param}}" value="1"{{if .AllSet}} checked{{end}}> Select All {{.Label}}</label><br>
<select name="{{.Param}}" multiple size="5">
{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{end}}</select>
</fieldset>
{{end}}<button type="submit">Apply Filters</button>
</form>
<p>An empty selection on a dimension applies no filter on it.</p>
<p>Showing {{.RowCount}} rows of filtered data.</p>
<p><a href="{{.ChartsURL}}">Charts</a> | <a href="{{.ExportURL}}">Bar chart PNG</a> | <a href="/upload">Upload dataset</a></p>
{{.Table}}
</body>
</html>`))

func dimensionForms(r *http.Request, options DimensionOptions) []dimensionForm {
	q := r.URL.Query()
	values := map[string][]string{
		"user":   options.UserIDs,
		"area":   options.AreaCodes,
		"device": options.DeviceIDs,
		"usage":  options.WaterUsages,
		"year":   intLabels(options.Years),
		"month":  intLabels(options.Months),
		"day":    intLabels(options.Days),
	}
	forms := make([]dimensionForm, 0, len(dimensionQuery))
	for _, dim := range dimensionQuery {
		picked := map[string]bool{}
		for _, v := range q[dim.Param] {
			picked[v] = true
		}
		form := dimensionForm{
			Label:  dim.Label,
			Param:  dim.Param,
			AllSet: q.Get("all_"+dim.Param) == "1",
		}
		for _, v := range values[dim.Param] {
			form.Options = append(form.Options, optionItem{Value: v, Selected: picked[v]})
		}
		forms = append(forms, form)
	}
	return forms
}

func intLabels(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%d", v)
	}
	return out
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	id, ds := currentDataset(r)
	if ds == nil {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	options := CollectOptions(ds)
	selection := selectionFromQuery(r, options)
	result := Compute(ds, selection)

	data := dashboardPageData{
		Dimensions: dimensionForms(r, options),
		RowCount:   result.Filtered.Len(),
		ChartsURL:  "/charts?" + r.URL.RawQuery,
		ExportURL:  "/export/bar.png?" + r.URL.RawQuery,
		Table:      template.HTML(GenerateFilteredTableHTML(result.Filtered)),
	}
	if id != defaultDatasetID {
		data.DatasetID = id
	}
	if err := dashboardTemplate.Execute(w, data); err != nil {
		log.Printf("error rendering dashboard: %v", err)
	}
}

func handleCharts(w http.ResponseWriter, r *http.Request) {
	_, ds := currentDataset(r)
	if ds == nil {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	result := Compute(ds, selectionFromQuery(r, CollectOptions(ds)))
	page := charts.NewDashboardPage(result)
	if err := page.Render(w); err != nil {
		log.Printf("error rendering charts: %v", err)
	}
}

func handleExportPNG(w http.ResponseWriter, r *http.Request) {
	_, ds := currentDataset(r)
	if ds == nil {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	result := Compute(ds, selectionFromQuery(r, CollectOptions(ds)))
	png, err := charts.DrawAreaTotalsPNG(result.MonthlyByArea)
	if err != nil {
		http.Error(w, "Error rendering chart: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

var uploadTemplate = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head><title>Upload dataset</title></head>
<body>
<h1>Upload dataset</h1>
<p>Accepted: .xlsx, .csv, .tsv, or an archived csv (.zip, .gz, .lz4).</p>
<form method="post" action="/upload" enctype="multipart/form-data">
<input type="file" name="file">
<button type="submit">Upload</button>
</form>
</body>
</html>`))

func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		if err := uploadTemplate.Execute(w, nil); err != nil {
			log.Printf("error rendering upload form: %v", err)
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	uid := uuid.NewV4().String()
	dir := filepath.Join(config.GetConfig().UploadDir, uid)
	os.MkdirAll(dir, 0755)
	filePath := filepath.Join(dir, filepath.Base(header.Filename))
	dst, err := os.Create(filePath)
	if err != nil {
		http.Error(w, "Error saving file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	_, err = io.Copy(dst, file)
	dst.Close()
	if err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	unpacked, err := unpackArchive(filePath)
	if err != nil {
		http.Error(w, "Error unpacking file: "+err.Error(), http.StatusBadRequest)
		return
	}
	if unpacked != "" {
		filePath = unpacked
	}

	ds, err := LoadDataset(filePath)
	if err != nil {
		// a SchemaError aborts the upload: no partial dashboard
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if existingID, existing := findDatasetByFingerprint(ds.Fingerprint); existing != nil {
		http.Redirect(w, r, "/?dataset="+existingID, http.StatusSeeOther)
		return
	}
	registerDataset(uid, ds)
	http.Redirect(w, r, "/?dataset="+uid, http.StatusSeeOther)
}
