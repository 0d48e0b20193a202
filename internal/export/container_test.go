package export

import (
	"encoding/xml"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sidremus/cge-blender/internal/scene"
	"github.com/Sidremus/cge-blender/pkg/math"
)

func rangeScene(start, end int) *scene.Scene {
	cube := &scene.Object{
		Name:    "Cube",
		Type:    scene.TypeMesh,
		Visible: true,
		Base:    scene.Transform{Scale: math.Vec3{X: 1, Y: 1, Z: 1}},
	}
	cube.Pose = cube.Base
	cube.SetBound(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	return &scene.Scene{Objects: []*scene.Object{cube}, FrameStart: start, FrameEnd: end}
}

func actionScene() *scene.Scene {
	sc := rangeScene(0, 100)
	rig := &scene.Object{Name: "Rig", Type: scene.TypeArmature, Visible: true}
	sc.Objects = append(sc.Objects, rig)

	keys := func(last float64) scene.Channel {
		return scene.Channel{
			{Frame: 0, Value: math.Vec3{}},
			{Frame: last, Value: math.Vec3{X: 1}},
		}
	}
	walk := &scene.Action{Name: "Walk", Channels: map[string]*scene.ChannelSet{
		"Rig": {Location: keys(10)},
	}}
	run := &scene.Action{Name: "Run", Channels: map[string]*scene.ChannelSet{
		"Rig": {Location: keys(5)},
	}}
	idle := &scene.Action{Name: "Idle", FakeUser: true, Channels: map[string]*scene.ChannelSet{}}
	unrelated := &scene.Action{Name: "DoorOpen", Channels: map[string]*scene.ChannelSet{
		"Door": {Location: keys(4)},
	}}
	sc.Actions = []*scene.Action{walk, run, idle, unrelated}

	rig.BindAction(walk)
	return sc
}

func runExport(t *testing.T, sc *scene.Scene, opts *Options, static StaticSceneExporter) (string, error) {
	t.Helper()
	err := NewContainerExporter(sc, opts, static).Run()
	data, readErr := os.ReadFile(opts.OutputPath)
	if readErr != nil {
		return "", err
	}
	return string(data), err
}

func TestRunSceneRange(t *testing.T) {
	opts := testOptions(t)
	fake := &fakeStaticExporter{payload: "{}"}

	out, err := runExport(t, rangeScene(0, 10), opts, fake)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\"?>\n<animations>\n"))
	assert.True(t, strings.HasSuffix(out, "</animations>\n"))
	assert.Contains(t, out, "\t<animation name=\"animation\">\n")

	// Frames 0, 5, 10 plus the unconditional final frame.
	assert.Equal(t, 4, strings.Count(out, "<frame "))
	assert.Equal(t, 4, fake.calls)
}

func TestRunContainerIsWellFormedXML(t *testing.T) {
	opts := testOptions(t)
	opts.Format = FormatX3D
	fake := &fakeStaticExporter{
		payload: X3DXMLDeclaration + "\n" + X3DDoctype + "\n<X3D><Scene></Scene></X3D>\n",
	}

	out, err := runExport(t, rangeScene(0, 10), opts, fake)
	require.NoError(t, err)

	// Embedded X3D fragments must leave the container parseable as a
	// single outer XML document.
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
}

func TestRunActions(t *testing.T) {
	opts := testOptions(t)
	opts.ActionsObject = "Rig"
	fake := &fakeStaticExporter{payload: "{}"}

	sc := actionScene()
	out, err := runExport(t, sc, opts, fake)
	require.NoError(t, err)

	// One block per usable or pinned action, in discovery order; the
	// unrelated action is excluded.
	walkIdx := strings.Index(out, "<animation name=\"Walk\">")
	runIdx := strings.Index(out, "<animation name=\"Run\">")
	idleIdx := strings.Index(out, "<animation name=\"Idle\">")
	require.True(t, walkIdx >= 0 && runIdx >= 0 && idleIdx >= 0)
	assert.True(t, walkIdx < runIdx && runIdx < idleIdx, "blocks must follow discovery order")
	assert.NotContains(t, out, "DoorOpen")
	assert.Equal(t, 3, strings.Count(out, "<animation "))
}

func TestRunActionsRestoresBinding(t *testing.T) {
	opts := testOptions(t)
	opts.ActionsObject = "Rig"
	fake := &fakeStaticExporter{payload: "{}"}

	sc := actionScene()
	original := sc.Object("Rig").Anim.Action

	_, err := runExport(t, sc, opts, fake)
	require.NoError(t, err)
	assert.Same(t, original, sc.Object("Rig").Anim.Action)
}

func TestRunActionsRestoresBindingOnFailure(t *testing.T) {
	opts := testOptions(t)
	opts.ActionsObject = "Rig"
	fake := &fakeStaticExporter{fail: true}

	sc := actionScene()
	original := sc.Object("Rig").Anim.Action

	_, err := runExport(t, sc, opts, fake)
	require.Error(t, err)
	assert.Same(t, original, sc.Object("Rig").Anim.Action,
		"original action must be restored even when a pass fails")
}

func TestRunNoActionFound(t *testing.T) {
	opts := testOptions(t)
	opts.ActionsObject = "Cube"
	fake := &fakeStaticExporter{payload: "{}"}

	sc := rangeScene(0, 10)
	sc.Actions = []*scene.Action{
		{Name: "Elsewhere", Channels: map[string]*scene.ChannelSet{"Other": {}}},
	}

	_, err := runExport(t, sc, opts, fake)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoActionFound)
	assert.ErrorContains(t, err, "Cube")
}

func TestRunActionsObjectMissing(t *testing.T) {
	opts := testOptions(t)
	opts.ActionsObject = "Nobody"
	fake := &fakeStaticExporter{payload: "{}"}

	_, err := runExport(t, rangeScene(0, 10), opts, fake)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestRunAbortsTruncated(t *testing.T) {
	opts := testOptions(t)
	fake := &fakeStaticExporter{fail: true}

	out, err := runExport(t, rangeScene(0, 10), opts, fake)
	require.Error(t, err)

	// The run aborts without writing the closing tag: the partial file
	// stays on disk in a truncated state.
	assert.NotContains(t, out, "</animations>")
}

func TestRunDuplicateIntegrityFailureAborts(t *testing.T) {
	opts := testOptions(t)
	opts.MakeDuplicatesReal = true

	sc := rangeScene(0, 10)
	sc.Object("Cube").Emitter = &scene.Emitter{Count: 2, Spacing: math.Vec3{X: 1}}

	// A hostile static export deletes an original object mid-frame,
	// breaking the duplicate-realization count invariants.
	fake := &fakeStaticExporter{payload: "{}"}
	fake.hook = func(s *scene.Scene) { s.Remove("Cube") }

	out, err := runExport(t, sc, opts, fake)
	require.Error(t, err)
	assert.ErrorIs(t, err, scene.ErrIntegrity)
	assert.NotContains(t, out, "</animations>")
}

func TestRunInvalidFrameRange(t *testing.T) {
	opts := testOptions(t)
	fake := &fakeStaticExporter{payload: "{}"}

	_, err := runExport(t, rangeScene(20, 10), opts, fake)
	require.Error(t, err)
	assert.ErrorContains(t, err, "frame range")
}

func TestRunValidatesOptions(t *testing.T) {
	opts := testOptions(t)
	opts.FrameSkip = 51
	fake := &fakeStaticExporter{payload: "{}"}

	err := NewContainerExporter(rangeScene(0, 10), opts, fake).Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "frame skip")
}
