package xpobj

import (
	"fmt"
	"strconv"

	"github.com/Faultbox/xpobj/pkg/math"
)

// Face is one triangle as three indices into the vertex arrays.
type Face [3]int

// PointTable holds the shared geometry tables of a file. Index i addresses
// the i-th element of Vertices, Normals and UVs alike.
type PointTable struct {
	Vertices []math.Vec3
	Normals  []math.Vec3
	UVs      []math.Vec2

	LineVertices []math.Vec3
	LineColors   []math.Vec3

	// VLIGHT is deprecated but still found in older files.
	LightVertices []math.Vec3
	LightColors   []math.Vec3

	Indices []int
}

// parseFloats converts every arg to float32, reporting the first bad field.
func parseFloats(args []string) ([]float32, error) {
	vals := make([]float32, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %q is not a number", ErrMalformedRecord, i+1, a)
		}
		vals[i] = float32(v)
	}
	return vals, nil
}

// AddVertex appends a VT record: x y z nx ny nz u v.
func (p *PointTable) AddVertex(args []string) error {
	if len(args) != 8 {
		return malformed("VT <x> <y> <z> <nx> <ny> <nz> <u> <v>", args)
	}
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}
	p.Vertices = append(p.Vertices, transformArgs(vals, 0))
	p.Normals = append(p.Normals, transformArgs(vals, 3))
	p.UVs = append(p.UVs, math.Vec2{X: vals[6], Y: vals[7]})
	return nil
}

// AddLineVertex appends a VLINE record: x y z r g b.
func (p *PointTable) AddLineVertex(args []string) error {
	if len(args) != 6 {
		return malformed("VLINE <x> <y> <z> <r> <g> <b>", args)
	}
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}
	p.LineVertices = append(p.LineVertices, transformArgs(vals, 0))
	p.LineColors = append(p.LineColors, math.Vec3{X: vals[3], Y: vals[4], Z: vals[5]})
	return nil
}

// AddLightVertex appends a VLIGHT record: x y z r g b.
func (p *PointTable) AddLightVertex(args []string) error {
	if len(args) != 6 {
		return malformed("VLIGHT <x> <y> <z> <r> <g> <b>", args)
	}
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}
	p.LightVertices = append(p.LightVertices, transformArgs(vals, 0))
	p.LightColors = append(p.LightColors, math.Vec3{X: vals[3], Y: vals[4], Z: vals[5]})
	return nil
}

// AddIndices appends 1 to 10 indices (IDX and IDX10 records).
func (p *PointTable) AddIndices(args []string) error {
	if len(args) < 1 || len(args) > 10 {
		return malformed("IDX <n> | IDX10 <n> x 10", args)
	}
	idx := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: field %d: %q is not an index", ErrMalformedRecord, i+1, a)
		}
		idx[i] = n
	}
	p.Indices = append(p.Indices, idx...)
	return nil
}

// SliceFaces returns count indices starting at offset, grouped into triangles.
// A trailing group of fewer than three indices is dropped; callers report it.
func (p *PointTable) SliceFaces(offset, count int) ([]Face, error) {
	n := len(p.Indices)
	if offset < 0 || count < 0 || offset > n || count > n-offset {
		return nil, fmt.Errorf("%w: offset %d + count %d exceeds %d indices",
			ErrRange, offset, count, n)
	}
	src := p.Indices[offset : offset+count]
	faces := make([]Face, 0, len(src)/3)
	for i := 0; i+2 < len(src); i += 3 {
		faces = append(faces, Face{src[i], src[i+1], src[i+2]})
	}
	return faces, nil
}

// PointCounts is the POINT_COUNTS header.
type PointCounts struct {
	Tris    int // VT records
	Lines   int // VLINE records
	Lights  int // VLIGHT records
	Indices int
}

// ParsePointCounts reads POINT_COUNTS <tris> <lines> <lites> <indices>.
func ParsePointCounts(args []string) (PointCounts, error) {
	if len(args) != 4 {
		return PointCounts{}, malformed("POINT_COUNTS <tris> <lines> <lites> <indices>", args)
	}
	var vals [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 {
			return PointCounts{}, fmt.Errorf("%w: POINT_COUNTS field %d: %q", ErrMalformedRecord, i+1, a)
		}
		vals[i] = n
	}
	return PointCounts{Tris: vals[0], Lines: vals[1], Lights: vals[2], Indices: vals[3]}, nil
}

// Captured returns the counts actually held by the table.
func (p *PointTable) Captured() PointCounts {
	return PointCounts{
		Tris:    len(p.Vertices),
		Lines:   len(p.LineVertices),
		Lights:  len(p.LightVertices),
		Indices: len(p.Indices),
	}
}

// Check compares declared counts against the table. Each disagreement is
// returned as an error wrapping ErrIntegrityMismatch.
func (c PointCounts) Check(p *PointTable) []error {
	got := p.Captured()
	var errs []error
	mismatch := func(what string, declared, captured int) {
		if declared != captured {
			errs = append(errs, fmt.Errorf("%w: captured %d %s, declared %d",
				ErrIntegrityMismatch, captured, what, declared))
		}
	}
	mismatch("vertices", c.Tris, got.Tris)
	mismatch("line vertices", c.Lines, got.Lines)
	mismatch("light vertices", c.Lights, got.Lights)
	mismatch("indices", c.Indices, got.Indices)
	return errs
}
