// Package export writes correlated datasets to files other tools can
// consume: XLSX workbooks for spreadsheets and point shapefiles for GIS.
package export

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/country"
	"github.com/leina-lyt/inference-dashboard/internal/model"
)

var xlsxHeader = []string{
	"image_id", "timestamp", "country", "inference_time_seconds",
	"lat", "lon", "input_file_size_mb", "output_file_size_mb",
}

// WriteXLSX writes one sheet per country, countries in name order, rows in
// timestamp order.
func WriteXLSX(path string, datasets map[string]*model.Dataset) error {
	if len(datasets) == 0 {
		return eris.New("export: no datasets to write")
	}

	f := xlsx.NewFile()

	for _, name := range sortedCountries(datasets) {
		// Sheet names cap out at 31 characters in the XLSX format.
		sheetName := country.DisplayName(name)
		if len(sheetName) > 31 {
			sheetName = sheetName[:31]
		}
		sheet, err := f.AddSheet(sheetName)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", sheetName)
		}

		header := sheet.AddRow()
		for _, h := range xlsxHeader {
			header.AddCell().Value = h
		}

		for _, row := range sortedRows(datasets[name]) {
			r := sheet.AddRow()
			r.AddCell().Value = row.ImageID
			r.AddCell().Value = row.Timestamp.Format(time.RFC3339)
			r.AddCell().Value = row.Country
			r.AddCell().SetFloat(row.InferenceTimeSeconds)
			r.AddCell().SetFloat(row.Location.Lat)
			r.AddCell().SetFloat(row.Location.Lon)
			addSizeCell(r, row.InputFileSize)
			addSizeCell(r, row.OutputFileSize)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save xlsx")
	}

	zap.L().Info("xlsx written", zap.String("path", path), zap.Int("sheets", len(datasets)))
	return nil
}

// addSizeCell writes a size value, leaving the cell blank when the artifact
// is absent so absence stays distinguishable from zero.
func addSizeCell(r *xlsx.Row, size *float64) {
	cell := r.AddCell()
	if size != nil {
		cell.SetFloat(*size)
	}
}

func sortedCountries(datasets map[string]*model.Dataset) []string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedRows(ds *model.Dataset) []model.Row {
	rows := make([]model.Row, len(ds.Rows))
	copy(rows, ds.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Timestamp.Before(rows[j].Timestamp) })
	return rows
}
