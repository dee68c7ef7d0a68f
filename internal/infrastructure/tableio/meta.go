package tableio

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/civicgrid/crosswalk/internal/domain/run"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/pkg/errors"
)

const (
	// ParamsFileName holds the effective engine parameters of the run.
	ParamsFileName = "crosswalks_meta.json"

	// RunMetaFileName holds the full run record: identity, provenance, and
	// every exclusion made.
	RunMetaFileName = "run_meta.json"
)

// WriteParams writes the effective engine parameters next to the tables they
// produced.
func (w *Writer) WriteParams(params run.Params) (string, error) {
	path := filepath.Join(w.dir, ParamsFileName)
	if err := writeJSON(path, params); err != nil {
		return "", err
	}
	w.logger.Info("run parameters written", logging.String("path", path))
	return path, nil
}

// WriteRunMeta writes the finalized run record.
func (w *Writer) WriteRunMeta(meta run.Metadata) (string, error) {
	path := filepath.Join(w.dir, RunMetaFileName)
	if err := writeJSON(path, meta); err != nil {
		return "", err
	}
	w.logger.Info("run metadata written",
		logging.String("path", path),
		logging.String("run_id", meta.RunID),
	)
	return path, nil
}

func writeJSON(path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encoding "+path)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeIO, "writing "+path)
	}
	return nil
}
