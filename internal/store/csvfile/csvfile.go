// Package csvfile implements the store ports on top of flat CSV files.
//
// Every file is read with a full open-read-close cycle and every rewrite
// goes through a temp file in the same directory followed by a rename, so
// a crash mid-write leaves the previous version in place.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"grocer/internal/core"
)

// headerTrimReader trims the header cells so that "id, name" still maps.
type headerTrimReader struct {
	r       *csv.Reader
	trimmed bool
}

func newReader(in io.Reader) *headerTrimReader {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return &headerTrimReader{r: r}
}

func (h *headerTrimReader) Read() ([]string, error) {
	rec, err := h.r.Read()
	if err != nil {
		return nil, err
	}
	if !h.trimmed {
		h.trimmed = true
		for i := range rec {
			rec[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(rec[i], "\ufeff")))
		}
	}
	return rec, nil
}

func (h *headerTrimReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := h.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// readRows decodes path into out. A missing or empty file is reported as
// an issue and leaves out empty.
func readRows(path string, out any) ([]core.RowIssue, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.RowIssue{{Source: filepath.Base(path), Err: core.ErrNoData, Detail: "file not found"}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalCSV(newReader(f), out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []core.RowIssue{{Source: filepath.Base(path), Err: core.ErrNoData, Detail: "empty file"}}, nil
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return nil, nil
}

// writeAtomic marshals rows (with header) to a temp file and renames it
// over path.
func writeAtomic(path string, rows any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gocsv.Marshal(rows, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func malformed(path string, row int, detail string) core.RowIssue {
	return core.RowIssue{Source: filepath.Base(path), Row: row, Err: core.ErrMalformedRow, Detail: detail}
}
