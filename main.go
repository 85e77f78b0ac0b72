package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aquastat/water_dashboard/config"
)

func main() {
	cfg := config.GetConfig()

	// The dataset is read once per process lifetime; every filter change
	// recomputes from this immutable table.
	if _, err := os.Stat(cfg.DataPath); err == nil {
		ds, err := LoadDataset(cfg.DataPath)
		if err != nil {
			log.Fatalln("cannot load dataset", err)
		}
		registerDataset(defaultDatasetID, ds)
		fmt.Printf("loaded %d rows from %s\n", len(ds.Rows), cfg.DataPath)
	} else {
		log.Printf("no dataset at %s, waiting for upload", cfg.DataPath)
	}

	http.HandleFunc("/", handleDashboard)
	http.HandleFunc("/charts", handleCharts)
	http.HandleFunc("/export/bar.png", handleExportPNG)
	http.HandleFunc("/upload", handleUpload)

	go func() {
		for {
			time.Sleep(time.Minute)
			purgeDatasets(time.Hour * 2)
			removeOldFiles(cfg.UploadDir, time.Now().Add(-time.Hour*2))
		}
	}()

	fmt.Println("listen on:", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, nil))
}

func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}

	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())

		if file.IsDir() {
			err := removeOldFiles(filePath, maxAge)
			if err != nil {
				return err
			}
			continue
		}
		fileStat, err := os.Stat(filePath)
		if err != nil {
			return err
		}
		if fileStat.ModTime().Before(maxAge) {
			err := os.Remove(filePath)
			if err != nil {
				return err
			}
			fmt.Printf("Removed file: %s\n", filePath)
		}
	}

	return nil
}
