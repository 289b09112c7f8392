package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/acidbase/internal/storage"
)

// Point is one vertex of a curve.
type Point struct{ X, Y float64 }

// CurveToSVG draws points as a single polyline scaled to fill width by height.
func CurveToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SeriesToSVG plots a stored sweep against log10 of the swept input. With an
// empty species the curve is pH, otherwise log10 of that species'
// concentration.
func SeriesToSVG(s *storage.Series, species string, width, height int, strokeColor string) (string, error) {
	ys := s.PH
	if species != "" {
		col, ok := s.Columns[species]
		if !ok {
			return "", fmt.Errorf("unknown species %s (available: %v)", species, s.Species)
		}
		ys = col
	}
	if len(s.Values) < 2 {
		return "", fmt.Errorf("series has %d points, need at least 2", len(s.Values))
	}

	points := make([]Point, 0, len(s.Values))
	for i, v := range s.Values {
		if v <= 0 || i >= len(ys) {
			continue
		}
		y := ys[i]
		if species != "" {
			if y <= 0 {
				continue
			}
			y = math.Log10(y)
		}
		points = append(points, Point{X: math.Log10(v), Y: y})
	}
	if len(points) < 2 {
		return "", fmt.Errorf("series has fewer than 2 plottable points")
	}
	return CurveToSVG(points, width, height, strokeColor), nil
}
