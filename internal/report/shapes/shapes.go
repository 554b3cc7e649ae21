package shapes

import (
	"context"
	"sort"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/internal/geo"
	"github.com/busurbano-data/internal/gtfs-static/parser"
	"github.com/busurbano-data/internal/report/writer"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

// ShapeWriter persists one reprojected shape.
type ShapeWriter interface {
	WriteShape(shapeID string, projected []writer.Point, geographic [][]float64) error
}

// Shape is an ordered route geometry.
type Shape struct {
	ShapeID string
	Points  []models.ShapePoint
}

type Processor struct {
	parser    *parser.Parser
	projector geo.Projector
	logger    logger.Logger
}

func NewProcessor(p *parser.Parser, projector geo.Projector, log logger.Logger) *Processor {
	return &Processor{parser: p, projector: projector, logger: log}
}

// Load reads shapes.txt and returns the shapes in order of first appearance,
// each with its points sorted by position.
func (p *Processor) Load(dir string) []Shape {
	points, _ := p.parser.Shapes(dir)

	index := make(map[string]int)
	var shapes []Shape
	for _, pt := range points {
		i, ok := index[pt.ShapeID]
		if !ok {
			i = len(shapes)
			index[pt.ShapeID] = i
			shapes = append(shapes, Shape{ShapeID: pt.ShapeID})
		}
		shapes[i].Points = append(shapes[i].Points, pt)
	}

	for _, s := range shapes {
		sort.SliceStable(s.Points, func(i, j int) bool {
			return s.Points[i].ShapePtSequence < s.Points[j].ShapePtSequence
		})
	}
	return shapes
}

// Process reprojects every shape of the feed and hands it to w. A shape that
// cannot be written is logged and skipped. It returns how many shapes were
// written.
func (p *Processor) Process(ctx context.Context, dir string, w ShapeWriter) (int, error) {
	shapes := p.Load(dir)
	if len(shapes) == 0 {
		p.logger.Warn("No shapes to process", "dir", dir)
		return 0, nil
	}

	written := 0
	for _, s := range shapes {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		projected := make([]writer.Point, 0, len(s.Points))
		geographic := make([][]float64, 0, len(s.Points))
		for _, pt := range s.Points {
			x, y, err := p.projector.Project(pt.ShapePtLat, pt.ShapePtLon)
			if err != nil {
				p.logger.Debug("Shape point not projected", "shape_id", s.ShapeID, "error", err)
				continue
			}
			projected = append(projected, writer.Point{X: x, Y: y})
			geographic = append(geographic, []float64{pt.ShapePtLat, pt.ShapePtLon})
		}

		if len(projected) == 0 {
			p.logger.Warn("Shape has no projectable points", "shape_id", s.ShapeID, "points", len(s.Points))
			continue
		}

		if err := w.WriteShape(s.ShapeID, projected, geographic); err != nil {
			p.logger.Error("Failed to write shape", "shape_id", s.ShapeID, "error", err)
			continue
		}
		written++
	}

	p.logger.Info("Shapes written", "count", written, "total", len(shapes))
	return written, nil
}
