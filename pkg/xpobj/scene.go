package xpobj

import "strconv"

// Header is the three-record preamble: line endings, version and file type.
type Header struct {
	LineEndings string // "I" (Unix) or "A" (Mac)
	Version     int
	Type        string
}

// Valid reports whether all three header records were found.
func (h Header) Valid() bool {
	return h.LineEndings != "" && h.Version != 0 && h.Type != ""
}

// headerStep feeds one record into header detection. It returns false once
// the record is not part of the header.
func (h *Header) headerStep(stage int, rec Record) bool {
	if len(rec.Args) != 0 {
		return false
	}
	switch stage {
	case 0:
		if rec.Tag != "I" && rec.Tag != "A" {
			return false
		}
		h.LineEndings = rec.Tag
	case 1:
		v, err := strconv.Atoi(rec.Tag)
		if err != nil || v <= 0 {
			return false
		}
		h.Version = v
	case 2:
		if rec.Tag != "OBJ" {
			return false
		}
		h.Type = rec.Tag
	default:
		return false
	}
	return true
}

// Material holds the texture and shading directives of a file. Loading the
// images is up to the consumer.
type Material struct {
	Texture         string
	TextureNormal   string
	TextureLit      string
	NormalMetalness bool
	BlendGlass      bool
	GlobalSpecular  float32
	HasSpecular     bool
}

// Scene is the parse result of one file.
type Scene struct {
	Name     string
	Header   Header
	Material Material
	Declared *PointCounts // nil without POINT_COUNTS
	Points   PointTable
	Nodes    []*Node
	LOD      *LOD // global level of detail, if the file opens with ATTR_LOD

	Diagnostics []Diagnostic
}

// Counts tallies the nodes of the scene tree.
func (s *Scene) Counts() Counts {
	return CountNodes(s.Nodes)
}

// Walk visits every node depth-first.
func (s *Scene) Walk(fn WalkFunc) {
	Walk(s.Nodes, fn)
}
