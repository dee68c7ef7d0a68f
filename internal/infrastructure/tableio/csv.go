// Package tableio writes crosswalk tables and run metadata to disk.  File
// names and column layouts are part of the published contract: downstream
// consumers join on them.
package tableio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/civicgrid/crosswalk/internal/domain/crosswalk"
	"github.com/civicgrid/crosswalk/internal/domain/geography"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/pkg/errors"
)

// LongFileName returns the long-table file name for a primary geography.
func LongFileName(id geography.ID) string {
	return "longform_" + id.String() + "_crosswalk.csv"
}

// WideFileName returns the wide-table file name for a primary geography.
func WideFileName(id geography.ID) string {
	return "wide_" + id.String() + "_crosswalk.csv"
}

// longHeader is the fixed column layout of every long table.
var longHeader = []string{
	"primary_id",
	"primary_name",
	"other_geography_id",
	"other_feature_id",
	"intersection_area",
	"pct_of_primary",
}

// Writer persists tables and metadata under one output directory.
type Writer struct {
	dir    string
	logger logging.Logger
}

// NewWriter creates the output directory if needed and returns a Writer.
func NewWriter(dir string, logger logging.Logger) (*Writer, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "creating output directory "+dir)
	}
	return &Writer{dir: dir, logger: logger.Named("tableio")}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteLong writes the long table to longform_<id>_crosswalk.csv and returns
// the file path.  Percentages carry exactly decimals digits so every row of
// a run formats alike.
func (w *Writer) WriteLong(table *crosswalk.LongTable, decimals int) (string, error) {
	path := filepath.Join(w.dir, LongFileName(table.Primary))
	if err := w.writeFile(path, func(cw *csv.Writer) error {
		return encodeLong(cw, table, decimals)
	}); err != nil {
		return "", err
	}
	w.logger.Info("long table written",
		logging.String("primary", table.Primary.String()),
		logging.String("path", path),
		logging.Int("rows", len(table.Rows)),
	)
	return path, nil
}

// WriteWide writes the wide table to wide_<id>_crosswalk.csv and returns the
// file path.
func (w *Writer) WriteWide(table *crosswalk.WideTable) (string, error) {
	path := filepath.Join(w.dir, WideFileName(table.Primary))
	if err := w.writeFile(path, func(cw *csv.Writer) error {
		return encodeWide(cw, table)
	}); err != nil {
		return "", err
	}
	w.logger.Info("wide table written",
		logging.String("primary", table.Primary.String()),
		logging.String("path", path),
		logging.Int("rows", len(table.Rows)),
	)
	return path, nil
}

// writeFile writes one CSV file atomically enough for a batch tool: the
// file is truncated, encoded, flushed, and closed, with the first error
// reported.
func (w *Writer) writeFile(path string, encode func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "creating "+path)
	}

	cw := csv.NewWriter(f)
	if err := encode(cw); err != nil {
		f.Close()
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return errors.Wrap(err, errors.CodeIO, "writing "+path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.CodeIO, "closing "+path)
	}
	return nil
}

// EncodeLong writes a long table as CSV to any writer.
func EncodeLong(out io.Writer, table *crosswalk.LongTable, decimals int) error {
	cw := csv.NewWriter(out)
	if err := encodeLong(cw, table, decimals); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// EncodeWide writes a wide table as CSV to any writer.
func EncodeWide(out io.Writer, table *crosswalk.WideTable) error {
	cw := csv.NewWriter(out)
	if err := encodeWide(cw, table); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func encodeLong(cw *csv.Writer, table *crosswalk.LongTable, decimals int) error {
	if err := cw.Write(longHeader); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := []string{
			row.PrimaryKey,
			row.PrimaryName,
			row.OtherGeography.String(),
			row.OtherKey,
			strconv.FormatFloat(row.IntersectionArea, 'f', -1, 64),
			crosswalk.FormatPercentage(row.Percentage, decimals),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func encodeWide(cw *csv.Writer, table *crosswalk.WideTable) error {
	header := make([]string, 0, 2+len(table.Geographies))
	header = append(header, "primary_id", "primary_name")
	for _, id := range table.Geographies {
		header = append(header, id.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range table.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.PrimaryKey, row.PrimaryName)
		record = append(record, row.Cells...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}
