// Package spreadsheet reads dig site coordinates out of uploaded Excel
// workbooks. Each dig sheet carries its latitude and longitude at fixed,
// well-known cell addresses; formula cells elsewhere on the sheet are ignored.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// Fixed cell addresses holding the site coordinate (bypassing the formula
// cells in column J)
const (
	latitudeCell  = "AR15"
	longitudeCell = "AS15"
)

// Site is one dig site read from a workbook sheet
type Site struct {
	Name       string    `json:"name"`
	Coordinate geo.Point `json:"coordinate"`
}

// Skipped records a sheet that could not be used, with the reason
type Skipped struct {
	Sheet  string `json:"sheet"`
	Reason string `json:"reason"`
}

// ReadSites parses a workbook and returns the dig sites it holds. Sheets are
// included when their lowercased name starts with "dig", excluding the index
// sheet named exactly "dig list". Sheets with missing, unparseable or
// out-of-bounds coordinates are skipped with a recorded reason; only a
// workbook that cannot be opened at all is an error.
func ReadSites(r io.Reader) ([]Site, []Skipped, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	var sites []Site
	var skipped []Skipped

	for _, sheet := range workbook.GetSheetList() {
		lower := strings.ToLower(sheet)
		if !strings.HasPrefix(lower, "dig") || lower == "dig list" {
			continue
		}

		site, reason := readSheet(workbook, sheet)
		if reason != "" {
			skipped = append(skipped, Skipped{Sheet: sheet, Reason: reason})
			continue
		}
		sites = append(sites, site)
	}

	return sites, skipped, nil
}

// readSheet reads one dig sheet, returning a non-empty reason when the sheet
// must be skipped
func readSheet(workbook *excelize.File, sheet string) (Site, string) {
	latRaw, err := workbook.GetCellValue(sheet, latitudeCell)
	if err != nil {
		return Site{}, fmt.Sprintf("failed to read %s: %v", latitudeCell, err)
	}
	lonRaw, err := workbook.GetCellValue(sheet, longitudeCell)
	if err != nil {
		return Site{}, fmt.Sprintf("failed to read %s: %v", longitudeCell, err)
	}

	if strings.TrimSpace(latRaw) == "" || strings.TrimSpace(lonRaw) == "" {
		return Site{}, fmt.Sprintf("%s/%s are empty", latitudeCell, longitudeCell)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return Site{}, fmt.Sprintf("latitude %q is not a number", latRaw)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		return Site{}, fmt.Sprintf("longitude %q is not a number", lonRaw)
	}

	point, err := geo.NewPoint(lat, lon)
	if err != nil {
		return Site{}, fmt.Sprintf("coordinates out of bounds (lat %v, lon %v)", lat, lon)
	}

	return Site{Name: sheet, Coordinate: point}, ""
}
