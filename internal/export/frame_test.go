package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sidremus/cge-blender/internal/scene"
)

// fakeStaticExporter writes a canned payload, optionally failing or
// mutating the scene to simulate misbehaving host primitives.
type fakeStaticExporter struct {
	payload string
	fail    bool
	hook    func(sc *scene.Scene)
	calls   int
}

func (f *fakeStaticExporter) Export(sc *scene.Scene, path string, opts *Options) error {
	if f.fail {
		return errors.New("exporter crashed")
	}
	f.calls++
	if f.hook != nil {
		f.hook(sc)
	}
	return os.WriteFile(path, []byte(f.payload), 0644)
}

func testOptions(t *testing.T) *Options {
	t.Helper()
	opts := DefaultOptions()
	opts.AxisForward = AxisY
	opts.AxisUp = AxisZ
	opts.OutputPath = filepath.Join(t.TempDir(), "out.castle-anim-frames")
	return &opts
}

func TestEmitFrame(t *testing.T) {
	opts := testOptions(t)
	fake := &fakeStaticExporter{payload: `{"asset":{"version":"2.0"}}`}

	fe, err := NewFrameExporter(&scene.Scene{}, opts, fake)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, fe.EmitFrame(&sb, 5, 0))

	want := "\t\t<frame time=\"0.200000\" mime_type=\"model/gltf+json\"" +
		" bounding_box_center=\"0.000000 0.000000 0.000000\"" +
		" bounding_box_size=\"-1.000000 -1.000000 -1.000000\">\n" +
		`{"asset":{"version":"2.0"}}` +
		"\n\t\t</frame>\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("frame element mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitFrameRemovesStagingFile(t *testing.T) {
	opts := testOptions(t)
	fake := &fakeStaticExporter{payload: "{}"}

	fe, err := NewFrameExporter(&scene.Scene{}, opts, fake)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, fe.EmitFrame(&sb, 0, 0))

	base := strings.TrimSuffix(opts.OutputPath, filepath.Ext(opts.OutputPath))
	_, statErr := os.Stat(base + "_tmp.gltf")
	assert.True(t, os.IsNotExist(statErr), "staging file must be deleted after reading")
}

func TestEmitFrameStripsX3DPrologue(t *testing.T) {
	opts := testOptions(t)
	opts.Format = FormatX3D
	fake := &fakeStaticExporter{
		payload: X3DXMLDeclaration + "\n" + X3DDoctype + "\n<X3D><Scene/></X3D>\n",
	}

	fe, err := NewFrameExporter(&scene.Scene{}, opts, fake)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, fe.EmitFrame(&sb, 0, 0))

	out := sb.String()
	assert.NotContains(t, out, "<?xml version=\"1.0\" encoding")
	assert.NotContains(t, out, "<!DOCTYPE")
	assert.Contains(t, out, "<X3D><Scene/></X3D>")
	assert.Contains(t, out, "mime_type=\"model/x3d+vrml\"")
}

func TestStripX3DPrologueIdempotent(t *testing.T) {
	doc := X3DXMLDeclaration + "\n" + X3DDoctype + "\n<X3D/>"
	once := StripX3DPrologue(doc)
	twice := StripX3DPrologue(once)
	assert.Equal(t, once, twice)
}

func TestEmitFrameExporterFailure(t *testing.T) {
	opts := testOptions(t)
	fake := &fakeStaticExporter{fail: true}

	fe, err := NewFrameExporter(&scene.Scene{}, opts, fake)
	require.NoError(t, err)

	var sb strings.Builder
	err = fe.EmitFrame(&sb, 0, 0)
	require.Error(t, err)

	var expErr *ExporterError
	assert.True(t, errors.As(err, &expErr))
}

func TestEmitFrameTimeNormalization(t *testing.T) {
	opts := testOptions(t)
	fake := &fakeStaticExporter{payload: "{}"}

	fe, err := NewFrameExporter(&scene.Scene{}, opts, fake)
	require.NoError(t, err)

	// Times are normalized to a fixed 25 fps regardless of the scene
	// frame rate, shifted so the block starts at zero.
	var sb strings.Builder
	require.NoError(t, fe.EmitFrame(&sb, 30, 5))
	assert.Contains(t, sb.String(), "time=\"1.000000\"")
}
