package exporter

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sidremus/cge-blender/internal/export"
	"github.com/Sidremus/cge-blender/internal/scene"
	"github.com/Sidremus/cge-blender/pkg/math"
)

func exportGLTF(t *testing.T, sc *scene.Scene, opts *export.Options) gltfDocument {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.gltf")
	require.NoError(t, (&GLTFExporter{}).Export(sc, path, opts))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc gltfDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestGLTFDocumentShape(t *testing.T) {
	opts := export.DefaultOptions()
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{boxObject("Cube", 0)}}, &opts)

	assert.Equal(t, "2.0", doc.Asset.Version)
	require.NotNil(t, doc.Scene)
	require.Len(t, doc.Scenes, 1)
	require.Len(t, doc.Nodes, 1)
	require.Len(t, doc.Meshes, 1)

	assert.Equal(t, "OB_Cube", doc.Nodes[0].Name)
	assert.Equal(t, "ME_Cube", doc.Meshes[0].Name)
	require.NotNil(t, doc.Nodes[0].Mesh)
	assert.Equal(t, 0, *doc.Nodes[0].Mesh)
}

func TestGLTFEmbeddedBuffer(t *testing.T) {
	opts := export.DefaultOptions()
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{boxObject("Cube", 0)}}, &opts)

	require.Len(t, doc.Buffers, 1)
	buf := doc.Buffers[0]
	require.True(t, strings.HasPrefix(buf.URI, "data:application/octet-stream;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(buf.URI, "data:application/octet-stream;base64,"))
	require.NoError(t, err)
	assert.Len(t, raw, buf.ByteLength)

	for _, view := range doc.BufferViews {
		assert.LessOrEqual(t, view.ByteOffset+view.ByteLength, buf.ByteLength)
		assert.Zero(t, view.ByteOffset%4, "buffer views stay 4-byte aligned")
	}
}

func TestGLTFPositionBounds(t *testing.T) {
	opts := export.DefaultOptions()
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{boxObject("Cube", 0)}}, &opts)

	prim := doc.Meshes[0].Primitives[0]
	pos := doc.Accessors[prim.Attributes["POSITION"]]
	assert.Equal(t, "VEC3", pos.Type)
	assert.Equal(t, 8, pos.Count)
	assert.Equal(t, []float32{-1, -1, -1}, pos.Min)
	assert.Equal(t, []float32{1, 1, 1}, pos.Max)

	require.NotNil(t, prim.Indices)
	idx := doc.Accessors[*prim.Indices]
	assert.Equal(t, "SCALAR", idx.Type)
	assert.Equal(t, 36, idx.Count)
}

func TestGLTFNodeTransform(t *testing.T) {
	o := boxObject("Cube", 5)
	o.Pose.Rotation = math.Vec3{Z: 90}
	o.Pose.Scale = math.Vec3{X: 2, Y: 2, Z: 2}

	opts := export.DefaultOptions()
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{o}}, &opts)

	node := doc.Nodes[0]
	require.NotNil(t, node.Translation)
	assert.Equal(t, [3]float32{5, 0, 0}, *node.Translation)
	require.NotNil(t, node.Rotation)
	assert.InDelta(t, 0.7071, float64(node.Rotation[2]), 1e-4)
	assert.InDelta(t, 0.7071, float64(node.Rotation[3]), 1e-4)
	require.NotNil(t, node.Scale)
	assert.Equal(t, [3]float32{2, 2, 2}, *node.Scale)
}

func TestGLTFRestPoseOmitsTransform(t *testing.T) {
	opts := export.DefaultOptions()
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{boxObject("Cube", 0)}}, &opts)

	node := doc.Nodes[0]
	assert.Nil(t, node.Translation)
	assert.Nil(t, node.Rotation)
	assert.Nil(t, node.Scale)
}

func TestGLTFNormalsSplitVertices(t *testing.T) {
	opts := export.DefaultOptions()
	opts.WriteNormals = true
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{boxObject("Cube", 0)}}, &opts)

	prim := doc.Meshes[0].Primitives[0]
	pos := doc.Accessors[prim.Attributes["POSITION"]]
	assert.Equal(t, 24, pos.Count, "flat normals need per-face vertices")

	norm, ok := prim.Attributes["NORMAL"]
	require.True(t, ok)
	assert.Equal(t, 24, doc.Accessors[norm].Count)
}

func TestGLTFHierarchy(t *testing.T) {
	parent := boxObject("Parent", 0)
	child := boxObject("Child", 2)
	child.Parent = parent

	opts := export.DefaultOptions()
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{parent, child}}, &opts)

	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, []int{0}, doc.Scenes[0].Nodes)
	assert.Equal(t, []int{1}, doc.Nodes[0].Children)
	assert.Equal(t, "OB_Child", doc.Nodes[1].Name)
}

func TestGLTFFlatBakesWorldSpace(t *testing.T) {
	opts := export.DefaultOptions()
	opts.WriteHierarchy = false
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{boxObject("Cube", 5)}}, &opts)

	node := doc.Nodes[0]
	assert.Nil(t, node.Translation)

	pos := doc.Accessors[doc.Meshes[0].Primitives[0].Attributes["POSITION"]]
	assert.Equal(t, []float32{4, -1, -1}, pos.Min)
	assert.Equal(t, []float32{6, 1, 1}, pos.Max)
}

func TestGLTFSelectionOnly(t *testing.T) {
	selected := boxObject("Selected", 0)
	selected.Selected = true
	other := boxObject("Other", 5)

	opts := export.DefaultOptions()
	opts.SelectionOnly = true
	doc := exportGLTF(t, &scene.Scene{Objects: []*scene.Object{selected, other}}, &opts)

	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "OB_Selected", doc.Nodes[0].Name)
}

func TestGLTFEmptySceneStillValid(t *testing.T) {
	opts := export.DefaultOptions()
	doc := exportGLTF(t, &scene.Scene{}, &opts)

	assert.Equal(t, "2.0", doc.Asset.Version)
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Buffers)
}
