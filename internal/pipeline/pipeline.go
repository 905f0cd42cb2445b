// Package pipeline correlates per-country input and output inference logs
// into joined datasets.
//
// The pipeline is a pure batch transform: every invocation rebuilds all
// datasets from the directory tree and retains no state between runs. Failures
// are isolated at the narrowest scope that contains them — a malformed file
// skips that file, and any error while processing one country skips that
// country without affecting the others.
package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/loader"
	"github.com/leina-lyt/inference-dashboard/internal/model"
)

// Options configure where the pipeline looks for logs.
type Options struct {
	// BaseDir holds one subdirectory per country.
	BaseDir string
	// InputSubdir and OutputSubdir are the per-country folders holding input
	// and output logs plus their artifacts.
	InputSubdir  string
	OutputSubdir string
}

// Pipeline builds per-country datasets from a log directory tree.
type Pipeline struct {
	opts Options
}

// New creates a Pipeline, applying the conventional subdirectory names when
// none are configured.
func New(opts Options) *Pipeline {
	if opts.InputSubdir == "" {
		opts.InputSubdir = "input_logs"
	}
	if opts.OutputSubdir == "" {
		opts.OutputSubdir = "output_logs"
	}
	return &Pipeline{opts: opts}
}

// Correlate walks the base directory and produces one dataset per country,
// keyed by lowercased country name, alongside every diagnostic raised while
// loading and joining. There is no fatal path: an absent base directory
// yields an empty map and a diagnostic.
func (p *Pipeline) Correlate() (map[string]*model.Dataset, []model.Diagnostic) {
	log := zap.L().With(zap.String("component", "pipeline"))

	datasets := make(map[string]*model.Dataset)
	var diags []model.Diagnostic

	entries, err := os.ReadDir(p.opts.BaseDir)
	if err != nil {
		log.Warn("base directory not found", zap.String("dir", p.opts.BaseDir))
		diags = append(diags, model.Diagnostic{
			Kind:     model.KindMissingDirectory,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("base directory not found: %s", p.opts.BaseDir),
		})
		return datasets, diags
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		country := entry.Name()

		ds, countryDiags := p.correlateCountry(country)
		diags = append(diags, countryDiags...)
		if ds == nil {
			continue
		}
		datasets[strings.ToLower(country)] = ds

		log.Debug("country correlated",
			zap.String("country", country),
			zap.Int("rows", len(ds.Rows)),
		)
	}

	return datasets, diags
}

// correlateCountry loads, joins, and augments one country's logs. A nil
// dataset means the country was skipped; the diagnostics say why.
func (p *Pipeline) correlateCountry(country string) (*model.Dataset, []model.Diagnostic) {
	inputDir := filepath.Join(p.opts.BaseDir, country, p.opts.InputSubdir)
	outputDir := filepath.Join(p.opts.BaseDir, country, p.opts.OutputSubdir)

	if !isDir(inputDir) || !isDir(outputDir) {
		return nil, []model.Diagnostic{{
			Kind:     model.KindMissingSubfolder,
			Severity: model.SeverityWarning,
			Country:  country,
			Message:  fmt.Sprintf("missing input or output folder for %s", country),
		}}
	}

	inputs, inputDiags := loader.Load[model.InputRecord](inputDir)
	outputs, outputDiags := loader.Load[model.OutputRecord](outputDir)

	diags := tagCountry(append(inputDiags, outputDiags...), country)

	if len(inputs) == 0 || len(outputs) == 0 {
		diags = append(diags, model.Diagnostic{
			Kind:     model.KindEmptyDataset,
			Severity: model.SeverityInfo,
			Country:  country,
			Message:  fmt.Sprintf("skipping %s: empty input or output logs", country),
		})
		return nil, diags
	}

	rows, err := p.join(country, inputs, outputs)
	if err != nil {
		diags = append(diags, model.Diagnostic{
			Kind:     model.KindCorrelationFailure,
			Severity: model.SeverityWarning,
			Country:  country,
			Message:  fmt.Sprintf("error processing logs for %s: %v", country, err),
		})
		return nil, diags
	}

	return &model.Dataset{Country: strings.ToLower(country), Rows: rows}, diags
}

// join inner-joins input records to output records on
// input.image_id == output.image_id_from_log. Duplicate keys on either side
// produce the cross-product of matches, matching relational join semantics.
// Any timestamp that fails to parse fails the whole country.
func (p *Pipeline) join(country string, inputs []model.InputRecord, outputs []model.OutputRecord) ([]model.Row, error) {
	byKey := make(map[string][]model.OutputRecord, len(outputs))
	for _, out := range outputs {
		byKey[out.ImageIDFromLog] = append(byKey[out.ImageIDFromLog], out)
	}

	var rows []model.Row
	for _, in := range inputs {
		matches := byKey[in.ImageID]
		if len(matches) == 0 {
			continue
		}

		ts, err := parseTimestamp(in.Timestamp)
		if err != nil {
			return nil, err
		}

		for _, out := range matches {
			row := model.Row{
				ImageID:              in.ImageID,
				Timestamp:            ts,
				Country:              strings.ToLower(country),
				InferenceTimeSeconds: *out.InferenceTimeSeconds,
				Location:             *in.Location,
			}

			// Artifacts are stored next to the logs under the image id.
			id := in.ImageID
			if id == "" {
				id = out.ImageIDFromLog
			}
			row.InputFileSize = artifactSizeMB(filepath.Join(p.opts.BaseDir, country, p.opts.InputSubdir, id))
			row.OutputFileSize = artifactSizeMB(filepath.Join(p.opts.BaseDir, country, p.opts.OutputSubdir, id))

			rows = append(rows, row)
		}
	}

	return rows, nil
}

// timestampLayouts are tried in order when normalizing record timestamps.
// RFC3339Nano also accepts plain RFC3339 values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, eris.Errorf("unrecognized timestamp %q", s)
}

// artifactSizeMB returns the on-disk size of the artifact at path in
// megabytes, rounded to 5 decimal places, or nil when no artifact exists.
// Absence and a zero-byte artifact are distinct states.
func artifactSizeMB(path string) *float64 {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	mb := math.Round(float64(info.Size())/(1<<20)*1e5) / 1e5
	return &mb
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func tagCountry(diags []model.Diagnostic, country string) []model.Diagnostic {
	for i := range diags {
		diags[i].Country = country
	}
	return diags
}
