package simio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"evcharge/internal/simerr"
)

// Writer buffers output rows per table name in memory and flushes every
// table to disk once at the end of a run.
type Writer struct {
	dir    string
	format string // csv, tsv, xlsx

	headers map[string][]string
	buffers map[string][][]string
	order   []string
}

// NewWriter creates a Writer that emits files of the given format into dir.
func NewWriter(dir, format string) *Writer {
	return &Writer{
		dir:     dir,
		format:  format,
		headers: make(map[string][]string),
		buffers: make(map[string][][]string),
	}
}

func (w *Writer) ext() string {
	switch w.format {
	case "tsv":
		return ".tsv"
	case "xlsx":
		return ".xlsx"
	default:
		return ".csv"
	}
}

// CreateTable registers a named table with its header row. Call once per
// table before any AppendRow for that name.
func (w *Writer) CreateTable(name string, headers []string) {
	if _, ok := w.headers[name]; !ok {
		w.order = append(w.order, name)
	}
	w.headers[name] = headers
}

// AppendRow buffers one row under name, which must have been created via
// CreateTable first.
func (w *Writer) AppendRow(name string, row []string) {
	w.buffers[name] = append(w.buffers[name], row)
}

// Flush writes every buffered table to disk under dir, in the format the
// Writer was constructed with.
func (w *Writer) Flush() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("creating output dir %q", w.dir), err)
	}
	for _, name := range w.order {
		path := filepath.Join(w.dir, name+w.ext())
		var err error
		if w.format == "xlsx" {
			err = w.flushXLSX(path, w.headers[name], w.buffers[name])
		} else {
			err = w.flushDelimited(path, w.headers[name], w.buffers[name])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) flushDelimited(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("creating %q", path), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if w.format == "tsv" {
		cw.Comma = '\t'
	}
	if err := cw.Write(header); err != nil {
		return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("writing header of %q", path), err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("writing row of %q", path), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("flushing %q", path), err)
	}
	return nil
}

func (w *Writer) flushXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	writeRow := func(rowIdx int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("writing header of %q", path), err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("writing row of %q", path), err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return simerr.IO("OUTPUT_WRITE_FAILED", fmt.Sprintf("saving %q", path), err)
	}
	return nil
}
