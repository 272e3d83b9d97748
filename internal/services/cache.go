package services

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const cacheVersion = "v2"

func cacheFilename(dir, xlsxPath, sheet string) string {
	key := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(xlsxPath)
	if sheet != "" {
		key += "_" + sheet
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.gob", key, cacheVersion))
}

func saveToCache(dir, xlsxPath, sheet string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(cacheFilename(dir, xlsxPath, sheet))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(ds)
}

func loadFromCache(dir, xlsxPath, sheet string) (*Dataset, error) {
	file, err := os.Open(cacheFilename(dir, xlsxPath, sheet))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var ds Dataset
	if err := gob.NewDecoder(file).Decode(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}
