package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/busurbano-data/internal/common/logger"
)

// maxIssues caps how many row problems a ParseReport keeps; the counters keep
// going past it.
const maxIssues = 100

type Parser struct {
	logger logger.Logger
}

func New(logger logger.Logger) *Parser {
	return &Parser{logger: logger}
}

// TableOptions describes what a table needs to be usable.
type TableOptions struct {
	// Required columns. A header lacking any of them yields an empty table.
	Required []string
	// Optional tables are allowed to be absent from the feed.
	Optional bool
}

// RowIssue records why a row was dropped.
type RowIssue struct {
	Line   int
	Reason string
}

// ParseReport summarises how one table file was read.
type ParseReport struct {
	File           string
	Missing        bool
	MissingColumns []string
	Rows           int
	Kept           int
	Dropped        int
	Issues         []RowIssue
}

// Usable reports whether the file existed with every required column.
func (r ParseReport) Usable() bool {
	return !r.Missing && len(r.MissingColumns) == 0
}

func (r *ParseReport) drop(line int, reason string) {
	r.Dropped++
	if len(r.Issues) < maxIssues {
		r.Issues = append(r.Issues, RowIssue{Line: line, Reason: reason})
	}
}

// Row is one CSV record addressed by header name.
type Row struct {
	Line      int
	record    []string
	headerMap map[string]int
}

// Has reports whether the column exists in the header.
func (r Row) Has(field string) bool {
	_, ok := r.headerMap[field]
	return ok
}

// String returns the trimmed value of field, or "" when absent.
func (r Row) String(field string) string {
	if idx, ok := r.headerMap[field]; ok && idx < len(r.record) {
		return strings.TrimSpace(r.record[idx])
	}
	return ""
}

// Int parses a mandatory integer column.
func (r Row) Int(field string) (int, error) {
	str := r.String(field)
	if str == "" {
		return 0, fmt.Errorf("%s is empty", field)
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", field, err)
	}
	return val, nil
}

// IntOr parses an integer column, returning defaultVal when empty.
func (r Row) IntOr(field string, defaultVal int) (int, error) {
	if r.String(field) == "" {
		return defaultVal, nil
	}
	return r.Int(field)
}

// OptFloat parses a float column; an empty value yields nil.
func (r Row) OptFloat(field string) (*float64, error) {
	str := r.String(field)
	if str == "" {
		return nil, nil
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", field, err)
	}
	return &val, nil
}

// ReadTable streams dir/name row by row into fn. A row for which fn returns
// an error is dropped and logged; reading continues. A missing file or a
// header without the required columns is logged and produces a report with
// no rows, never an error.
func (p *Parser) ReadTable(dir, name string, opts TableOptions, fn func(Row) error) ParseReport {
	report := ParseReport{File: name}
	path := filepath.Join(dir, name)

	f, err := os.Open(path)
	if err != nil {
		report.Missing = true
		if errors.Is(err, os.ErrNotExist) && opts.Optional {
			p.logger.Debug("Optional table not present", "file", name, "dir", dir)
		} else {
			p.logger.Error("Table not readable", "file", name, "dir", dir, "error", err)
		}
		return report
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Variable number of fields
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			p.logger.Error("Table has no header row", "file", name)
		} else {
			p.logger.Error("Failed to read table header", "file", name, "error", err)
		}
		report.Missing = true
		return report
	}

	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headerMap[h] = i
	}

	for _, col := range opts.Required {
		if _, ok := headerMap[col]; !ok {
			report.MissingColumns = append(report.MissingColumns, col)
		}
	}
	if len(report.MissingColumns) > 0 {
		p.logger.Error("Required columns not found in header", "file", name, "missing", report.MissingColumns)
		return report
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				report.Rows++
				report.drop(perr.Line, perr.Err.Error())
				p.logger.Warn("Malformed CSV record", "file", name, "line", perr.Line, "error", err)
				continue
			}
			p.logger.Error("Aborting table read", "file", name, "line", line, "error", err)
			break
		}

		line, _ = reader.FieldPos(0)
		report.Rows++
		if err := fn(Row{Line: line, record: record, headerMap: headerMap}); err != nil {
			report.drop(line, err.Error())
			p.logger.Warn("Dropping row", "file", name, "line", line, "error", err)
			continue
		}
		report.Kept++

		if report.Rows%100000 == 0 {
			p.logger.Debug("Progress", "file", name, "records", report.Rows)
		}
	}

	p.logger.Debug("File parsed", "name", name, "records", report.Rows, "kept", report.Kept, "dropped", report.Dropped)
	return report
}
