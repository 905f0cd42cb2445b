package export

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/leina-lyt/inference-dashboard/internal/model"
)

func fptr(v float64) *float64 { return &v }

func testDatasets() map[string]*model.Dataset {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return map[string]*model.Dataset{
		"peru": {
			Country: "peru",
			Rows: []model.Row{
				{ImageID: "later", Timestamp: t0.Add(time.Hour), Country: "peru", InferenceTimeSeconds: 2.5, Location: model.Location{Lat: -12.0, Lon: -77.0}},
				{ImageID: "earlier", Timestamp: t0, Country: "peru", InferenceTimeSeconds: 1.5, Location: model.Location{Lat: -12.1, Lon: -77.1}, InputFileSize: fptr(2.0)},
			},
		},
		"kenya": {
			Country: "kenya",
			Rows: []model.Row{
				{ImageID: "k1", Timestamp: t0, Country: "kenya", InferenceTimeSeconds: 0.5, Location: model.Location{Lat: -1.28, Lon: 36.82}},
			},
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(path, testDatasets()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	// Countries in name order.
	assert.Equal(t, "Kenya", f.Sheets[0].Name)
	assert.Equal(t, "Peru", f.Sheets[1].Name)

	peru := f.Sheets[1]
	require.GreaterOrEqual(t, len(peru.Rows), 3)
	assert.Equal(t, "image_id", peru.Rows[0].Cells[0].Value)

	// Rows sorted by timestamp: "earlier" before "later".
	assert.Equal(t, "earlier", peru.Rows[1].Cells[0].Value)
	assert.Equal(t, "later", peru.Rows[2].Cells[0].Value)

	// Absent artifact size leaves the cell blank.
	size, err := peru.Rows[1].Cells[6].Float()
	require.NoError(t, err)
	assert.Equal(t, 2.0, size)
	assert.Equal(t, "", peru.Rows[2].Cells[6].Value)
}

func TestWriteShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.shp")
	require.NoError(t, WriteShapefile(path, testDatasets()))

	r, err := shp.Open(path)
	require.NoError(t, err)
	defer r.Close()

	var ids []string
	var points []shp.Point
	for r.Next() {
		_, shape := r.Shape()
		point, ok := shape.(*shp.Point)
		require.True(t, ok)
		points = append(points, *point)
		ids = append(ids, strings.TrimSpace(r.Attribute(0)))
	}
	require.Len(t, points, 3)

	// Kenya first (country name order), then peru in join order.
	assert.Equal(t, "k1", ids[0])
	assert.InDelta(t, 36.82, points[0].X, 0.001)
	assert.InDelta(t, -1.28, points[0].Y, 0.001)
	assert.Equal(t, []string{"k1", "later", "earlier"}, ids)
}

func TestWriteXLSX_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	err := WriteXLSX(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no datasets")
}
