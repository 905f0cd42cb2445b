// Package loader reads directories of JSON log files into typed records.
//
// Loading is deliberately forgiving: a missing directory, an empty directory,
// or a malformed file each produce a diagnostic instead of an error, and a
// single bad file never prevents the rest of the directory from loading.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/model"
)

// logExt is the file extension recognized as a log record.
const logExt = ".json"

// Record is any log entry type the loader can decode. Validate is called on
// every decoded record; a validation failure marks the file as malformed.
type Record interface {
	Validate() error
}

// Load reads every log file in dir, decoding each file into one record of
// type T. Files are processed in lexical name order so record order is
// reproducible across platforms. Each file is read exactly once, and a file
// that cannot be decoded contributes a diagnostic instead of a record.
func Load[T Record](dir string) ([]T, []model.Diagnostic) {
	log := zap.L().With(zap.String("component", "loader"), zap.String("dir", dir))

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Warn("directory not found")
		return nil, []model.Diagnostic{{
			Kind:     model.KindMissingDirectory,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("directory not found: %s", dir),
		}}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("directory unreadable", zap.Error(err))
		return nil, []model.Diagnostic{{
			Kind:     model.KindMissingDirectory,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("could not read directory %s: %v", dir, err),
		}}
	}

	// os.ReadDir returns entries sorted by name, which fixes record order
	// regardless of the underlying filesystem's enumeration order.
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), logExt) {
			continue
		}
		names = append(names, e.Name())
	}

	if len(names) == 0 {
		log.Warn("no log files found")
		return nil, []model.Diagnostic{{
			Kind:     model.KindNoMatchingFiles,
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("no JSON files found in %s", dir),
		}}
	}

	var records []T
	var diags []model.Diagnostic
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			diags = append(diags, malformed(name, err))
			continue
		}

		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			diags = append(diags, malformed(name, err))
			continue
		}
		if err := rec.Validate(); err != nil {
			diags = append(diags, malformed(name, err))
			continue
		}

		records = append(records, rec)
	}

	log.Debug("loaded records",
		zap.Int("records", len(records)),
		zap.Int("skipped", len(diags)),
	)

	return records, diags
}

func malformed(name string, err error) model.Diagnostic {
	return model.Diagnostic{
		Kind:     model.KindMalformedRecord,
		Severity: model.SeverityWarning,
		File:     name,
		Message:  fmt.Sprintf("could not decode %s: %v", name, err),
	}
}
