package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/xpobj/pkg/xpobj"
)

const needle = `I
800
OBJ

TEXTURE panel.png
POINT_COUNTS 3 0 0 3
VT 0 0 0 0 1 0 0 0
VT 1 0 0 0 1 0 1 0
VT 0 0 1 0 1 0 0 1
IDX 0 1 2

ATTR_LOD 0 1000
TRIS 0 3
ATTR_hard
ANIM_begin
ANIM_rotate 0 0 1 0 90 0 1 sim/needle
# needle
TRIS 0 3
ANIM_end
`

func parseNeedle(t *testing.T, src string) *xpobj.Scene {
	t.Helper()
	scene, err := xpobj.Parse(strings.NewReader(src), "needle", xpobj.Options{})
	require.NoError(t, err)
	return scene
}

func TestBuild(t *testing.T) {
	doc := Build(parseNeedle(t, needle))

	assert.Equal(t, "needle", doc.Name)
	assert.Equal(t, HeaderDoc{LineEndings: "I", Version: 800, Type: "OBJ"}, doc.Header)
	assert.Equal(t, "panel.png", doc.Material.Texture)
	require.NotNil(t, doc.Points.Declared)
	assert.Equal(t, *doc.Points.Declared, doc.Points.Captured)
	require.NotNil(t, doc.LOD)
	assert.Equal(t, 1000, doc.LOD.Far)
	assert.Empty(t, doc.Diagnostics)

	require.Len(t, doc.Nodes, 2)
	mesh := doc.Nodes[0]
	assert.Equal(t, "Mesh", mesh.Kind)
	require.Len(t, mesh.Triangles, 1)
	// (x, y, z) -> (x, -z, y)
	assert.Equal(t, [3]float32{0, -1, 0}, mesh.Triangles[0][2])
	assert.Nil(t, mesh.Timeline)

	anim := doc.Nodes[1]
	assert.Equal(t, "Anim", anim.Kind)
	require.Len(t, anim.KeyFrames, 2)
	require.NotNil(t, anim.Timeline)
	require.Len(t, anim.Timeline.Keys, 2)
	assert.Equal(t, 1, anim.Timeline.Keys[0].Frame)
	assert.Equal(t, 3, anim.Timeline.Keys[1].Frame)
	require.Len(t, anim.Timeline.Datarefs, 1)
	assert.Equal(t, "sim/needle", anim.Timeline.Datarefs[0].Path)
	require.Len(t, anim.Children, 1)
	assert.Len(t, anim.Children[0].Triangles, 1)
}

func TestEncode(t *testing.T) {
	doc := Build(parseNeedle(t, needle))

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, FormatYAML))

		var back map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
		assert.Equal(t, "needle", back["name"])
		assert.Len(t, back["nodes"], 2)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, FormatJSON))

		var back Document
		require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
		assert.Equal(t, doc.Name, back.Name)
		require.Len(t, back.Nodes, 2)
		assert.Equal(t, doc.Nodes[1].Timeline.Keys, back.Nodes[1].Timeline.Keys)
	})

	t.Run("unknown", func(t *testing.T) {
		err := Encode(&bytes.Buffer{}, doc, "xml")
		assert.True(t, errors.Is(err, ErrUnknownFormat))
	})
}

func TestWriteTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, parseNeedle(t, needle), TreeOptions{KeyFrames: true}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "needle", lines[0])
	assert.Equal(t, "  Mesh  object  [1 faces]", lines[1])
	assert.Equal(t, "  Anim  anim  [2 keyframes ATTR_hard]", lines[2])
	assert.Contains(t, lines[3], "Rotation 0 -> 0 deg about (0, -1, 0) sim/needle")
	assert.Contains(t, lines[4], "Rotation 1 -> 90 deg")
	assert.Equal(t, "    Mesh  object.000.needle  [1 faces ATTR_hard]", lines[5])
}

func TestWriteTreeNoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, parseNeedle(t, needle), TreeOptions{}))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.NotContains(t, buf.String(), "Rotation")
}

func TestWriteSummary(t *testing.T) {
	src := strings.Replace(needle, "POINT_COUNTS 3 0 0 3", "POINT_COUNTS 4 0 0 3", 1)
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, parseNeedle(t, src)))

	out := buf.String()
	assert.Contains(t, out, "Header:      I 800 OBJ")
	assert.Contains(t, out, "Texture:     panel.png")
	assert.Contains(t, out, "LOD:         0 - 1000")
	assert.Contains(t, out, "  vertices            3         4")
	assert.Contains(t, out, "  meshes              2")
	assert.Contains(t, out, "  animated            1")
	assert.Contains(t, out, "Diagnostics (1)")
}

func TestBuildOriginAndPivot(t *testing.T) {
	src := `I
800
OBJ

POINT_COUNTS 3 0 0 3
VT 0 0 0 0 1 0 0 0
VT 1 0 0 0 1 0 1 0
VT 0 0 1 0 1 0 0 1
IDX 0 1 2
TRIS 0 3
ANIM_begin
ANIM_trans 1 2 3 1 2 3
ANIM_rotate 0 0 1 0 90 0 1 sim/door
TRIS 0 3
ANIM_end
`
	doc := Build(parseNeedle(t, src))
	require.Len(t, doc.Nodes, 2)

	assert.Nil(t, doc.Nodes[0].Origin)
	assert.Nil(t, doc.Nodes[0].Pivot)

	anim := doc.Nodes[1]
	require.NotNil(t, anim.Origin)
	require.NotNil(t, anim.Pivot)
	assert.Equal(t, [3]float32{1, -3, 2}, *anim.Origin)
	assert.Equal(t, [3]float32{1, -3, 2}, *anim.Pivot)
	assert.Equal(t, 0, anim.KeyFrames[0].Track)
	assert.Equal(t, 1, anim.KeyFrames[1].Track)
	assert.Equal(t, 1, anim.KeyFrames[2].Track)
}
