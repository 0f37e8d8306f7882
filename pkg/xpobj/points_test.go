package xpobj

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xpobj/pkg/math"
)

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func TestTransform(t *testing.T) {
	assert.Equal(t, math.Vec3{X: 1, Y: -3, Z: 2}, Transform(1, 2, 3))
	assert.Equal(t, math.Vec3{X: -1, Y: 3, Z: -2}, Transform(-1, -2, -3))
}

func TestAddVertex_RandomizedTransform(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var p PointTable

	for i := 0; i < 1000; i++ {
		var v [8]float32
		args := make([]string, 8)
		for j := range v {
			v[j] = (rng.Float32() - 0.5) * 2000
			args[j] = formatFloat(v[j])
		}
		require.NoError(t, p.AddVertex(args))

		assert.Equal(t, math.Vec3{X: v[0], Y: -v[2], Z: v[1]}, p.Vertices[i])
		assert.Equal(t, Transform(v[3], v[4], v[5]), p.Normals[i])
		assert.Equal(t, math.Vec2{X: v[6], Y: v[7]}, p.UVs[i])
	}
	assert.Len(t, p.Vertices, 1000)
}

func TestAddVertex_Malformed(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"too few", []string{"1", "2", "3"}},
		{"too many", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}},
		{"not a number", []string{"1", "2", "3", "4", "5", "6", "7", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PointTable
			err := p.AddVertex(tt.args)
			assert.ErrorIs(t, err, ErrMalformedRecord)
			assert.Empty(t, p.Vertices)
			assert.Empty(t, p.Normals)
			assert.Empty(t, p.UVs)
		})
	}
}

func TestAddIndices(t *testing.T) {
	var p PointTable
	require.NoError(t, p.AddIndices([]string{"0"}))
	require.NoError(t, p.AddIndices([]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, p.Indices)

	assert.ErrorIs(t, p.AddIndices(nil), ErrMalformedRecord)
	assert.ErrorIs(t, p.AddIndices(make([]string, 11)), ErrMalformedRecord)
	assert.ErrorIs(t, p.AddIndices([]string{"-1"}), ErrMalformedRecord)
	assert.Len(t, p.Indices, 11)
}

func TestSliceFaces(t *testing.T) {
	p := PointTable{Indices: []int{0, 1, 2, 2, 1, 3, 3, 4, 5}}

	tests := []struct {
		name          string
		offset, count int
		want          []Face
		wantErr       bool
	}{
		{"all", 0, 9, []Face{{0, 1, 2}, {2, 1, 3}, {3, 4, 5}}, false},
		{"middle", 3, 3, []Face{{2, 1, 3}}, false},
		{"empty", 9, 0, []Face{}, false},
		{"past end", 3, 9, nil, true},
		{"negative offset", -3, 3, nil, true},
		{"negative count", 0, -3, nil, true},
		{"offset past end", 10, 0, nil, true},
		{"overflowing sum", 1 << 62, 1 << 62, nil, true},
		{"max offset", int(^uint(0) >> 1), 1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.SliceFaces(tt.offset, tt.count)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, tt.count/3)
		})
	}
}

func TestPointCounts(t *testing.T) {
	pc, err := ParsePointCounts([]string{"3", "2", "0", "6"})
	require.NoError(t, err)
	assert.Equal(t, PointCounts{Tris: 3, Lines: 2, Lights: 0, Indices: 6}, pc)

	_, err = ParsePointCounts([]string{"3", "2", "0"})
	assert.ErrorIs(t, err, ErrMalformedRecord)

	var p PointTable
	require.NoError(t, p.AddVertex([]string{"0", "0", "0", "0", "1", "0", "0", "0"}))
	errs := pc.Check(&p)
	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrIntegrityMismatch)
	}
}
