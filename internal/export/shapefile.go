package export

import (
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/model"
)

// WriteShapefile writes every row across all countries as a point layer, one
// point per correlated image at its device location.
func WriteShapefile(path string, datasets map[string]*model.Dataset) error {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrap(err, "export: create shapefile")
	}
	defer w.Close()

	fields := []shp.Field{
		shp.StringField("IMAGE_ID", 64),
		shp.StringField("COUNTRY", 32),
		shp.FloatField("INF_SEC", 16, 5),
		shp.StringField("TIMESTAMP", 25),
	}
	w.SetFields(fields)

	n := 0
	for _, name := range sortedCountries(datasets) {
		for _, row := range datasets[name].Rows {
			w.Write(&shp.Point{X: row.Location.Lon, Y: row.Location.Lat})

			if err := w.WriteAttribute(n, 0, row.ImageID); err != nil {
				return eris.Wrap(err, "export: write shapefile attribute")
			}
			if err := w.WriteAttribute(n, 1, row.Country); err != nil {
				return eris.Wrap(err, "export: write shapefile attribute")
			}
			if err := w.WriteAttribute(n, 2, row.InferenceTimeSeconds); err != nil {
				return eris.Wrap(err, "export: write shapefile attribute")
			}
			if err := w.WriteAttribute(n, 3, row.Timestamp.Format(time.RFC3339)); err != nil {
				return eris.Wrap(err, "export: write shapefile attribute")
			}
			n++
		}
	}

	zap.L().Info("shapefile written", zap.String("path", path), zap.Int("points", n))
	return nil
}
