// unarchive.go
package main

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// unpackArchive extracts an uploaded dataset archive next to itself and
// returns the extracted path. A non-archive extension returns "" so the
// caller keeps the original file.
func unpackArchive(filePath string) (string, error) {
	switch filepath.Ext(filePath) {
	case ".zip":
		return unpackZipArchive(filePath)
	case ".gz":
		return unpackCompressed(filePath, ".gz")
	case ".lz4":
		return unpackCompressed(filePath, ".lz4")
	}
	return "", nil
}

// unpackZipArchive extracts the largest file of the archive, which is the
// dataset by any reasonable packing.
func unpackZipArchive(filePath string) (string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var largest *zip.File
	var largestSize uint64
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.UncompressedSize64 > largestSize {
			largest = f
			largestSize = f.UncompressedSize64
		}
	}
	if largest == nil {
		return "", fmt.Errorf("archive %s contains no files", filePath)
	}

	destPath := filepath.Join(filepath.Dir(filePath), filepath.Base(largest.Name))
	rc, err := largest.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	if err := writeTo(destPath, rc); err != nil {
		return "", err
	}
	os.Remove(filePath)
	return destPath, nil
}

func unpackCompressed(filePath, ext string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var src io.Reader
	if ext == ".gz" {
		gr, err := gzip.NewReader(file)
		if err != nil {
			return "", err
		}
		defer gr.Close()
		src = gr
	} else {
		src = lz4.NewReader(file)
	}

	destPath := strings.TrimSuffix(filePath, ext)
	if err := writeTo(destPath, src); err != nil {
		return "", err
	}
	os.Remove(filePath)
	return destPath, nil
}

func writeTo(destPath string, src io.Reader) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}
