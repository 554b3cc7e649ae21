package writer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twpayne/go-polyline"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const (
	indexFile     = "index.json"
	shapesDir     = "shapes"
	stagingPrefix = ".staging-"
)

type Options struct {
	JSON   bool
	Binary bool
}

// Writer lays out report files under one output directory.
type Writer struct {
	outputDir string
	opts      Options
	logger    logger.Logger
}

func New(outputDir string, opts Options, log logger.Logger) *Writer {
	return &Writer{outputDir: outputDir, opts: opts, logger: log}
}

// DateBatch collects the files of one date in a staging directory until
// Commit moves them into place.
type DateBatch struct {
	w         *Writer
	date      string
	staging   string
	final     string
	files     int
	committed bool
}

// BeginDate prepares an empty staging directory for date (YYYY-MM-DD).
func (w *Writer) BeginDate(date string) (*DateBatch, error) {
	b := &DateBatch{
		w:       w,
		date:    date,
		staging: filepath.Join(w.outputDir, stagingPrefix+date),
		final:   filepath.Join(w.outputDir, date),
	}
	if err := os.RemoveAll(b.staging); err != nil {
		return nil, fmt.Errorf("clearing staging directory: %w", err)
	}
	if err := os.MkdirAll(b.staging, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return b, nil
}

// WriteStop writes the report files of one stop code. The binary file needs
// the stop's projected location and is skipped when stop is nil or was not
// projected.
func (b *DateBatch) WriteStop(code string, arrivals []models.ArrivalRecord, stop *models.Stop) error {
	if b.w.opts.JSON {
		path := filepath.Join(b.staging, code+".json")
		if err := writeJSON(path, arrivals); err != nil {
			return fmt.Errorf("writing stop %s json: %w", code, err)
		}
		b.files++
	}

	if b.w.opts.Binary && stop != nil && stop.Projected {
		data, err := MarshalStopArrivals(code, Point{X: stop.X, Y: stop.Y}, arrivals)
		if err != nil {
			return fmt.Errorf("encoding stop %s: %w", code, err)
		}
		path := filepath.Join(b.staging, code+".pb")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing stop %s protobuf: %w", code, err)
		}
		b.files++
	}
	return nil
}

// Commit replaces any previous output of the date with the staged files.
func (b *DateBatch) Commit() error {
	if err := os.RemoveAll(b.final); err != nil {
		return fmt.Errorf("removing previous output for %s: %w", b.date, err)
	}
	if err := os.Rename(b.staging, b.final); err != nil {
		return fmt.Errorf("committing %s: %w", b.date, err)
	}
	b.committed = true
	b.w.logger.Debug("Committed date output", "date", b.date, "files", b.files)
	return nil
}

// Abort discards the staged files unless the batch was committed.
func (b *DateBatch) Abort() {
	if b.committed {
		return
	}
	if err := os.RemoveAll(b.staging); err != nil {
		b.w.logger.Error("Failed to remove staging directory", "path", b.staging, "error", err)
	}
}

// Index maps date to stop code to number of arrivals.
type Index map[string]map[string]int

// WriteIndex writes index.json at the root of the output directory.
func (w *Writer) WriteIndex(index Index) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(w.outputDir, indexFile)
	tmp := path + ".tmp"
	if err := writeJSON(tmp, index); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	w.logger.Info("Index written", "path", path, "dates", len(index))
	return nil
}

type shapeJSON struct {
	ShapeID  string       `json:"shape_id"`
	Points   [][2]float64 `json:"points"`
	Polyline string       `json:"polyline"`
}

// WriteShape writes shapes/{id}.pb with the projected points and, when JSON
// output is on, shapes/{id}.json with the projected points and an encoded
// polyline of the geographic ones ([lat, lon] pairs).
func (w *Writer) WriteShape(shapeID string, projected []Point, geographic [][]float64) error {
	if shapeID == "" || filepath.Base(shapeID) != shapeID {
		return fmt.Errorf("shape id %q is not usable as a file name", shapeID)
	}
	dir := filepath.Join(w.outputDir, shapesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating shapes directory: %w", err)
	}

	if w.opts.Binary {
		data, err := MarshalShape(shapeID, projected)
		if err != nil {
			return fmt.Errorf("encoding shape %s: %w", shapeID, err)
		}
		path := filepath.Join(dir, shapeID+".pb")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing shape %s: %w", shapeID, err)
		}
	}

	if w.opts.JSON {
		doc := shapeJSON{
			ShapeID:  shapeID,
			Points:   make([][2]float64, len(projected)),
			Polyline: string(polyline.EncodeCoords(geographic)),
		}
		for i, p := range projected {
			doc.Points[i] = [2]float64{p.X, p.Y}
		}
		if err := writeJSON(filepath.Join(dir, shapeID+".json"), doc); err != nil {
			return fmt.Errorf("writing shape %s json: %w", shapeID, err)
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
