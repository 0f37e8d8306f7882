// Package export renders parsed scenes for people and for other tools.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/xpobj/pkg/xpobj"
)

// Supported document formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for a format other than yaml or json.
var ErrUnknownFormat = errors.New("unknown output format")

// Document is the materialized form of a scene: faces resolved to
// positions, keyframes laid out on timelines.
type Document struct {
	Name        string          `yaml:"name" json:"name"`
	Header      HeaderDoc       `yaml:"header" json:"header"`
	Material    xpobj.Material  `yaml:"material" json:"material"`
	Points      PointsDoc       `yaml:"points" json:"points"`
	LOD         *xpobj.LOD      `yaml:"lod,omitempty" json:"lod,omitempty"`
	Nodes       []NodeDoc       `yaml:"nodes" json:"nodes"`
	Diagnostics []DiagnosticDoc `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

type HeaderDoc struct {
	LineEndings string `yaml:"line_endings" json:"line_endings"`
	Version     int    `yaml:"version" json:"version"`
	Type        string `yaml:"type" json:"type"`
}

// PointsDoc compares declared and captured table sizes.
type PointsDoc struct {
	Declared *xpobj.PointCounts `yaml:"declared,omitempty" json:"declared,omitempty"`
	Captured xpobj.PointCounts  `yaml:"captured" json:"captured"`
}

type NodeDoc struct {
	Kind       string          `yaml:"kind" json:"kind"`
	Name       string          `yaml:"name" json:"name"`
	Attributes []AttributeDoc  `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Triangles  [][3][3]float32 `yaml:"triangles,omitempty,flow" json:"triangles,omitempty"`
	Origin     *[3]float32     `yaml:"origin,omitempty,flow" json:"origin,omitempty"`
	Pivot      *[3]float32     `yaml:"pivot,omitempty,flow" json:"pivot,omitempty"`
	KeyFrames  []KeyFrameDoc   `yaml:"keyframes,omitempty" json:"keyframes,omitempty"`
	Timeline   *TimelineDoc    `yaml:"timeline,omitempty" json:"timeline,omitempty"`
	Children   []NodeDoc       `yaml:"children,omitempty" json:"children,omitempty"`
}

type AttributeDoc struct {
	Command string   `yaml:"command" json:"command"`
	Params  []string `yaml:"params,omitempty,flow" json:"params,omitempty"`
}

type KeyFrameDoc struct {
	Type     string     `yaml:"type" json:"type"`
	Location [3]float32 `yaml:"location,flow" json:"location"`
	Axis     [3]float32 `yaml:"axis,flow" json:"axis"`
	Angle    float32    `yaml:"angle" json:"angle"`
	Param    float32    `yaml:"param" json:"param"`
	Dataref  string     `yaml:"dataref" json:"dataref"`
	Track    int        `yaml:"track" json:"track"`
}

type TimelineDoc struct {
	Keys     []TimelineKeyDoc    `yaml:"keys,omitempty" json:"keys,omitempty"`
	Datarefs []xpobj.DatarefSlot `yaml:"datarefs,omitempty" json:"datarefs,omitempty"`
}

type TimelineKeyDoc struct {
	Frame int        `yaml:"frame" json:"frame"`
	Type  string     `yaml:"type" json:"type"`
	Value [3]float32 `yaml:"value,flow" json:"value"`
	Slot  int        `yaml:"slot" json:"slot"`
	At    float32    `yaml:"at" json:"at"`
}

type DiagnosticDoc struct {
	Line  int    `yaml:"line" json:"line"`
	Tag   string `yaml:"tag" json:"tag"`
	Error string `yaml:"error" json:"error"`
}

// Build materializes a scene. Timelines are only attached to animated nodes.
func Build(s *xpobj.Scene) Document {
	doc := Document{
		Name: s.Name,
		Header: HeaderDoc{
			LineEndings: s.Header.LineEndings,
			Version:     s.Header.Version,
			Type:        s.Header.Type,
		},
		Material: s.Material,
		Points: PointsDoc{
			Declared: s.Declared,
			Captured: s.Points.Captured(),
		},
		LOD: s.LOD,
	}

	for _, n := range s.Nodes {
		doc.Nodes = append(doc.Nodes, buildNode(n, &s.Points))
	}
	for _, d := range s.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, DiagnosticDoc{Line: d.Line, Tag: d.Tag, Error: d.Err.Error()})
	}
	return doc
}

func buildNode(n *xpobj.Node, points *xpobj.PointTable) NodeDoc {
	nd := NodeDoc{Kind: n.Kind.String(), Name: n.Name}

	for _, a := range n.Attributes {
		nd.Attributes = append(nd.Attributes, AttributeDoc{Command: a.Command, Params: a.Params})
	}
	for _, tri := range n.ResolveFaces(points) {
		nd.Triangles = append(nd.Triangles, [3][3]float32{tri[0].Array(), tri[1].Array(), tri[2].Array()})
	}
	for _, kf := range n.KeyFrames {
		nd.KeyFrames = append(nd.KeyFrames, KeyFrameDoc{
			Type:     kf.Type.String(),
			Location: kf.Location.Array(),
			Axis:     kf.Axis.Array(),
			Angle:    kf.Angle,
			Param:    kf.Param,
			Dataref:  kf.Dataref,
			Track:    kf.Track,
		})
	}
	if n.Kind == xpobj.KindAnim {
		origin, pivot := n.Origin.Array(), n.Pivot.Array()
		nd.Origin, nd.Pivot = &origin, &pivot
	}

	if n.Animated() {
		tl := xpobj.BuildTimeline(n)
		td := &TimelineDoc{Datarefs: tl.Datarefs}
		for _, k := range tl.Keys {
			kd := TimelineKeyDoc{Frame: k.Frame, Type: k.Type.String(), Slot: k.Slot, At: k.Value}
			if k.Type == xpobj.KeyRotation {
				kd.Value = k.Rotation.Array()
			} else {
				kd.Value = k.Location.Array()
			}
			td.Keys = append(td.Keys, kd)
		}
		nd.Timeline = td
	}

	for _, c := range n.Children {
		nd.Children = append(nd.Children, buildNode(c, points))
	}
	return nd
}

// Encode writes doc in the given format.
func Encode(w io.Writer, doc Document, format string) error {
	switch format {
	case FormatYAML, "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
