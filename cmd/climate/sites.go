package main

import (
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"gopkg.in/yaml.v3"
)

// siteEntry is one item of the sites file. A missing elev is unknown.
type siteEntry struct {
	Lat  *float64 `yaml:"lat"`
	Lon  *float64 `yaml:"long"`
	Elev *float64 `yaml:"elev"`
}

func loadSites(path string) ([]domain.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeSites(f)
}

// decodeSites reads a YAML list of {lat, long, elev} entries.
func decodeSites(r io.Reader) ([]domain.Site, error) {
	var entries []siteEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode sites: %w", err)
	}

	sites := make([]domain.Site, len(entries))
	for i, e := range entries {
		if e.Lat == nil || e.Lon == nil {
			return nil, fmt.Errorf("site %d: lat and long are required", i)
		}
		loc := domain.NewLocation(*e.Lat, *e.Lon)
		if e.Elev != nil {
			loc.Elev = *e.Elev
		}
		sites[i] = loc
	}
	return sites, nil
}
