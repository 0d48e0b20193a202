package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sidremus/cge-blender/pkg/math"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
	}{
		{"X", AxisX},
		{"y", AxisY},
		{"Z", AxisZ},
		{"-X", AxisNegX},
		{"-y", AxisNegY},
		{"-Z", AxisNegZ},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAxis("W")
	assert.Error(t, err)
}

func TestAxisMatrixHostConvention(t *testing.T) {
	// Forward Y, up Z is the host's own convention: no conversion.
	m, err := AxisMatrix(AxisY, AxisZ)
	require.NoError(t, err)
	assert.Equal(t, math.Identity(), m)
}

func TestAxisMatrixDefaultConvention(t *testing.T) {
	// The exporter default, forward Z and up Y, maps host Y to Z and
	// host Z to Y; X flips to keep the rotation proper.
	m, err := AxisMatrix(AxisZ, AxisY)
	require.NoError(t, err)

	got := m.TransformPoint(math.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, math.Vec3{X: -1, Y: 3, Z: 2}, got)
}

func TestAxisMatrixPreservesUp(t *testing.T) {
	for _, up := range []Axis{AxisX, AxisY, AxisNegZ} {
		forward := AxisZ
		if up == AxisNegZ {
			forward = AxisX
		}
		m, err := AxisMatrix(forward, up)
		require.NoError(t, err)

		got := m.TransformPoint(math.Vec3{Z: 1})
		assert.Equal(t, up.Vec(), got, "host up must land on the target up axis (%s)", up)
	}
}

func TestAxisMatrixConflict(t *testing.T) {
	_, err := AxisMatrix(AxisZ, AxisZ)
	assert.Error(t, err)

	_, err = AxisMatrix(AxisZ, AxisNegZ)
	assert.Error(t, err, "opposite signs still share an axis")
}
