package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("gltf")
	require.NoError(t, err)
	assert.Equal(t, FormatGLTF, f)

	f, err = ParseFormat("X3D")
	require.NoError(t, err)
	assert.Equal(t, FormatX3D, f)

	_, err = ParseFormat("obj")
	assert.Error(t, err)
}

func TestFormatMimeTypes(t *testing.T) {
	assert.Equal(t, "model/gltf+json", FormatGLTF.MimeType())
	assert.Equal(t, "model/x3d+vrml", FormatX3D.MimeType())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 4, opts.FrameSkip)
	assert.Equal(t, FormatGLTF, opts.Format)
	assert.Equal(t, AxisZ, opts.AxisForward)
	assert.Equal(t, AxisY, opts.AxisUp)
	assert.True(t, opts.ApplyModifiers)
	assert.True(t, opts.WriteHierarchy)
	assert.True(t, opts.NameDecorations)
	assert.False(t, opts.SelectionOnly)
	assert.False(t, opts.MakeDuplicatesReal)
}

func TestValidate(t *testing.T) {
	valid := DefaultOptions()
	valid.OutputPath = "out.castle-anim-frames"
	require.NoError(t, valid.Validate())

	skip := valid
	skip.FrameSkip = MaxFrameSkip + 1
	assert.Error(t, skip.Validate())

	negSkip := valid
	negSkip.FrameSkip = -1
	assert.Error(t, negSkip.Validate())

	noOut := valid
	noOut.OutputPath = ""
	assert.Error(t, noOut.Validate())

	badAxes := valid
	badAxes.AxisForward = AxisY
	badAxes.AxisUp = AxisNegY
	assert.Error(t, badAxes.Validate())
}
