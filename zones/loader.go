// Package zones turns GeoJSON obstacle polygons into blocked grid cells.
package zones

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

// Parse reads a FeatureCollection and returns its Polygon and MultiPolygon
// geometries as zones. skipped counts features of any other geometry type.
func Parse(data []byte) (zones []Zone, skipped int, err error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	for _, feature := range fc.Features {
		name := feature.Properties.MustString("name", "")

		switch geometry := feature.Geometry.(type) {
		case orb.Polygon:
			if len(geometry) > 0 {
				zones = append(zones, Zone{Name: name, Polygon: geometry})
			}
		case orb.MultiPolygon:
			for _, polygon := range geometry {
				if len(polygon) > 0 {
					zones = append(zones, Zone{Name: name, Polygon: polygon})
				}
			}
		default:
			skipped++
		}
	}
	return zones, skipped, nil
}

// Load reads obstacle zones from a GeoJSON file
func Load(path string, log logrus.FieldLogger) ([]Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}

	zones, skipped, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fields := logrus.Fields{"file": filepath.Base(path), "zones": len(zones)}
	if skipped > 0 {
		fields["skipped"] = skipped
		log.WithFields(fields).Warn("skipped non-polygon features")
	}
	log.WithFields(fields).Info("zones loaded")
	return zones, nil
}

// LoadDir reads every *.geojson file in dir. Unreadable files are logged and skipped.
func LoadDir(dir string, log logrus.FieldLogger) ([]Zone, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	var all []Zone
	for _, file := range files {
		zones, err := Load(file, log)
		if err != nil {
			log.WithError(err).WithField("file", filepath.Base(file)).Warn("failed to load zones")
			continue
		}
		all = append(all, zones...)
	}
	return all, nil
}

// LoadPath loads path as a single zones file, or with LoadDir when it is a directory.
func LoadPath(path string, log logrus.FieldLogger) ([]Zone, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path, log)
	}
	return Load(path, log)
}
