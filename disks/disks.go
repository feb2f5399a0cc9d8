package disks

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

////////////////////////////////////////////////////////////////////////////////
// Geometry

type DiskGeometry struct {
	Name               string `csv:"name"`
	Slug               string `csv:"slug"`
	FirstYearAvailable uint   `csv:"first_year_available"`
	FormFactor         string `csv:"form_factor"`
	IsRemovable        uint   `csv:"is_removable"`

	// BitsPerAddressUnit gives the number of bits in the device's smallest
	// addressible unit of memory. For everything in this table it's a byte.
	BitsPerAddressUnit uint `csv:"bits_per_address_unit"`

	// AddressUnitsPerSector gives the number of address units in a sector.
	AddressUnitsPerSector uint `csv:"address_units_per_sector"`
	SectorsPerTrack       uint `csv:"sectors_per_track"`

	// FirstSectorID is the ID of the first sector on each track. The IDs of the
	// remaining sectors follow sequentially. CPC formats are told apart by this.
	FirstSectorID uint `csv:"first_sector_id"`

	// TotalDataTracks gives the number of data tracks per head.
	TotalDataTracks uint `csv:"total_data_tracks"`
	// HiddenTracks is the number of tracks reserved for the system at the start
	// of the disk, before the CP/M directory.
	HiddenTracks uint `csv:"hidden_tracks"`
	// Heads gives the number of heads in the device.
	Heads uint   `csv:"heads"`
	Notes string `csv:"notes"`
}

// TotalSizeBytes gives the size of the storage device, rounded up to the nearest
// byte. This is the size of the sector data only; image headers aren't counted.
func (g *DiskGeometry) TotalSizeBytes() int64 {
	bits := int64(
		g.BitsPerAddressUnit * g.AddressUnitsPerSector * g.SectorsPerTrack *
			g.TotalDataTracks * g.Heads)
	if bits%8 == 0 {
		return bits / 8
	}
	return (bits / 8) + 1
}

////////////////////////////////////////////////////////////////////////////////

//go:embed disk-geometries.csv
var diskGeometriesRawCSV string
var diskGeometries map[string]DiskGeometry

// GetPredefinedDiskGeometry looks up one of the geometries in the built-in
// table by its slug, e.g. "plus3".
func GetPredefinedDiskGeometry(slug string) (DiskGeometry, error) {
	geometry, ok := diskGeometries[slug]
	if ok {
		return geometry, nil
	}

	err := fmt.Errorf("no predefined disk geometry exists with slug %q", slug)
	return DiskGeometry{}, err
}

// PredefinedSlugs returns the slugs of all built-in geometries, sorted.
func PredefinedSlugs() []string {
	slugs := make([]string, 0, len(diskGeometries))
	for slug := range diskGeometries {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

func parseGeometries(rawCSV string) (map[string]DiskGeometry, error) {
	csvReader := csv.NewReader(strings.NewReader(rawCSV))
	csvReader.Comma = '|'

	var rows []DiskGeometry
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode disk geometries: %w", err)
	}

	geometries := make(map[string]DiskGeometry, len(rows))
	for i, row := range rows {
		_, exists := geometries[row.Slug]
		if exists {
			return nil, fmt.Errorf(
				"duplicate definition for disk %q found on row %d", row.Slug, i+1)
		}
		geometries[row.Slug] = row
	}
	return geometries, nil
}

func init() {
	var err error
	diskGeometries, err = parseGeometries(diskGeometriesRawCSV)
	if err != nil {
		panic(err)
	}
}
