package export

import (
	"fmt"
	"io"

	"github.com/Faultbox/xpobj/pkg/xpobj"
)

// WriteSummary prints header, material, point counts, node counts and
// diagnostics of a scene.
func WriteSummary(w io.Writer, s *xpobj.Scene) error {
	captured := s.Points.Captured()
	counts := s.Counts()

	p := &printer{w: w}
	p.printf("Object:      %s\n", s.Name)
	if s.Header.Valid() {
		p.printf("Header:      %s %d %s\n", s.Header.LineEndings, s.Header.Version, s.Header.Type)
	} else {
		p.printf("Header:      (missing)\n")
	}
	if s.Material.Texture != "" {
		p.printf("Texture:     %s\n", s.Material.Texture)
	}
	if s.Material.TextureLit != "" {
		p.printf("Lit texture: %s\n", s.Material.TextureLit)
	}
	if s.Material.TextureNormal != "" {
		p.printf("Normal map:  %s\n", s.Material.TextureNormal)
	}
	if s.LOD != nil {
		p.printf("LOD:         %d - %d\n", s.LOD.Near, s.LOD.Far)
	}

	p.printf("\nPoints         captured")
	if s.Declared != nil {
		p.printf("  declared")
	}
	p.printf("\n")
	p.row("  vertices", captured.Tris, s.Declared, func(c *xpobj.PointCounts) int { return c.Tris })
	p.row("  lines", captured.Lines, s.Declared, func(c *xpobj.PointCounts) int { return c.Lines })
	p.row("  lights", captured.Lights, s.Declared, func(c *xpobj.PointCounts) int { return c.Lights })
	p.row("  indices", captured.Indices, s.Declared, func(c *xpobj.PointCounts) int { return c.Indices })

	p.printf("\nNodes\n")
	p.printf("  meshes       %8d\n", counts.Meshes)
	p.printf("  animated     %8d\n", counts.Animated)
	p.printf("  groups       %8d\n", counts.Groups)

	if len(s.Diagnostics) > 0 {
		p.printf("\nDiagnostics (%d)\n", len(s.Diagnostics))
		for _, d := range s.Diagnostics {
			p.printf("  %s\n", d.Error())
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) row(label string, got int, declared *xpobj.PointCounts, field func(*xpobj.PointCounts) int) {
	if declared == nil {
		p.printf("%-15s%8d\n", label, got)
		return
	}
	p.printf("%-15s%8d  %8d\n", label, got, field(declared))
}
