// Package expdata loads experimental data tables from .exp files.
//
// An .exp file is a whitespace-separated table. The first non-blank line is
// the header and starts with '#'; the first column is the independent
// variable. Missing measurements are written as nan.
package expdata

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vk/fitconf/internal/ctxlog"
)

// Data is one experimental dataset.
type Data struct {
	columns []string
	index   map[string]int
	rows    [][]float64
}

// Columns returns the header names in file order.
func (d *Data) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Len returns the number of data rows.
func (d *Data) Len() int { return len(d.rows) }

// Column returns a copy of the named column.
func (d *Data) Column(name string) ([]float64, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	col := make([]float64, len(d.rows))
	for r, row := range d.rows {
		col[r] = row[i]
	}
	return col, true
}

// Has reports whether the dataset has the named column.
func (d *Data) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Parse reads an .exp table. name is only used in error messages.
func Parse(name string, r io.Reader) (*Data, error) {
	d := &Data{index: make(map[string]int)}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if d.columns == nil {
			if !strings.HasPrefix(line, "#") {
				return nil, fmt.Errorf("%s:%d: header line must start with '#'", name, lineNo)
			}
			if err := d.setHeader(strings.Fields(strings.TrimPrefix(line, "#"))); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != len(d.columns) {
			return nil, fmt.Errorf("%s:%d: expected %d values, found %d", name, lineNo, len(d.columns), len(fields))
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: column %s: %w", name, lineNo, d.columns[i], err)
			}
			row[i] = v
		}
		d.rows = append(d.rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if d.columns == nil {
		return nil, fmt.Errorf("%s: no header line", name)
	}
	return d, nil
}

func (d *Data) setHeader(cols []string) error {
	if len(cols) == 0 {
		return fmt.Errorf("header has no columns")
	}
	for i, c := range cols {
		if _, dup := d.index[c]; dup {
			return fmt.Errorf("duplicate column %q", c)
		}
		d.index[c] = i
	}
	d.columns = cols
	return nil
}

// Loader reads .exp files from disk.
type Loader struct{}

// NewLoader creates a new experimental data loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadData opens and parses the dataset at path.
func (l *Loader) LoadData(ctx context.Context, path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open experimental data %s: %w", path, err)
	}
	defer f.Close()

	d, err := Parse(path, f)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Experimental data loaded.", "path", path, "columns", len(d.columns), "rows", len(d.rows))
	return d, nil
}
