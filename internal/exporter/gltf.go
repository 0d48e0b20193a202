package exporter

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	stdmath "math"
	"os"

	"go.uber.org/zap"

	"github.com/Sidremus/cge-blender/internal/export"
	"github.com/Sidremus/cge-blender/internal/logger"
	"github.com/Sidremus/cge-blender/internal/scene"
	"github.com/Sidremus/cge-blender/pkg/math"
)

// Writer-side subset of the glTF 2.0 JSON schema.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
type gltfDocument struct {
	Asset       gltfAsset        `json:"asset"`
	Scene       *int             `json:"scene,omitempty"`
	Scenes      []gltfScene      `json:"scenes,omitempty"`
	Nodes       []gltfNode       `json:"nodes,omitempty"`
	Meshes      []gltfMesh       `json:"meshes,omitempty"`
	Accessors   []gltfAccessor   `json:"accessors,omitempty"`
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     []gltfBuffer     `json:"buffers,omitempty"`
}

type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type gltfScene struct {
	Nodes []int `json:"nodes,omitempty"`
}

type gltfNode struct {
	Name        string      `json:"name,omitempty"`
	Children    []int       `json:"children,omitempty"`
	Mesh        *int        `json:"mesh,omitempty"`
	Translation *[3]float32 `json:"translation,omitempty"`
	Rotation    *[4]float32 `json:"rotation,omitempty"`
	Scale       *[3]float32 `json:"scale,omitempty"`
}

type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
}

type gltfAccessor struct {
	BufferView    *int      `json:"bufferView,omitempty"`
	ByteOffset    int       `json:"byteOffset,omitempty"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
}

type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	Target     *int `json:"target,omitempty"`
}

type gltfBuffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
}

const (
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeFloat         = 5126

	gltfTargetArrayBuffer        = 34962
	gltfTargetElementArrayBuffer = 34963
)

// GLTFExporter writes one glTF 2.0 JSON document per scene snapshot.
// Geometry and the binary buffer are embedded as a base64 data URI so
// each frame stays a single self-contained document.
type GLTFExporter struct{}

// Export serializes the scene's current pose to path.
func (e *GLTFExporter) Export(sc *scene.Scene, path string, opts *export.Options) error {
	b := &gltfBuilder{opts: opts}
	b.doc.Asset = gltfAsset{Version: "2.0", Generator: "cge-blender animframes"}

	var roots []int
	if opts.WriteHierarchy {
		children := childIndex(sc)
		for _, o := range sc.Objects {
			if o.Parent == nil && emitNode(o, children, opts) {
				roots = append(roots, b.addNode(o, children))
			}
		}
	} else {
		for _, o := range sc.Objects {
			if included(o, opts) && hasGeometry(o) {
				roots = append(roots, b.addFlatNode(o))
			}
		}
	}

	sceneIdx := 0
	b.doc.Scene = &sceneIdx
	b.doc.Scenes = []gltfScene{{Nodes: roots}}
	if b.bin.Len() > 0 {
		b.doc.Buffers = []gltfBuffer{{
			URI:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.bin.Bytes()),
			ByteLength: b.bin.Len(),
		}}
	}

	data, err := json.Marshal(&b.doc)
	if err != nil {
		return err
	}
	logger.Debug("wrote gltf snapshot",
		zap.String("path", path), zap.Int("frame", sc.Frame()))
	return os.WriteFile(path, data, 0644)
}

// gltfBuilder accumulates the JSON document and the shared binary
// buffer while the node tree is walked.
type gltfBuilder struct {
	opts *export.Options
	doc  gltfDocument
	bin  bytes.Buffer
}

// addNode emits one object as a node in the hierarchy, recursing into
// children. Returns the node index.
func (b *gltfBuilder) addNode(o *scene.Object, children map[*scene.Object][]*scene.Object) int {
	idx := len(b.doc.Nodes)
	b.doc.Nodes = append(b.doc.Nodes, gltfNode{})

	node := gltfNode{Name: decorated("OB_", o.Name, b.opts)}
	if loc := o.Pose.Location; loc != (math.Vec3{}) {
		node.Translation = &[3]float32{float32(loc.X), float32(loc.Y), float32(loc.Z)}
	}
	if q := poseRotation(o); q != math.QuatIdentity() {
		node.Rotation = &[4]float32{float32(q.X), float32(q.Y), float32(q.Z), float32(q.W)}
	}
	if s := o.Pose.Scale; s != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		node.Scale = &[3]float32{float32(s.X), float32(s.Y), float32(s.Z)}
	}

	if included(o, b.opts) && hasGeometry(o) {
		var normals [6]math.Vec3
		for i, f := range boxFaces {
			normals[i] = f.normal
		}
		mesh := b.addMesh(decorated("ME_", o.Name, b.opts), o.BoundBox(), normals)
		node.Mesh = &mesh
	}
	for _, c := range children[o] {
		if emitNode(c, children, b.opts) {
			node.Children = append(node.Children, b.addNode(c, children))
		}
	}

	b.doc.Nodes[idx] = node
	return idx
}

// addFlatNode emits an object with its cuboid baked into world space
// and no transform, for exports without a hierarchy.
func (b *gltfBuilder) addFlatNode(o *scene.Object) int {
	world := o.WorldMatrix()
	var normals [6]math.Vec3
	for i, f := range boxFaces {
		normals[i] = world.TransformDirection(f.normal).Normalize()
	}
	mesh := b.addMesh(decorated("ME_", o.Name, b.opts), worldCorners(o), normals)

	idx := len(b.doc.Nodes)
	b.doc.Nodes = append(b.doc.Nodes, gltfNode{
		Name: decorated("OB_", o.Name, b.opts),
		Mesh: &mesh,
	})
	return idx
}

// addMesh writes the cuboid geometry into the binary buffer and
// returns the mesh index. With normals enabled vertices are split per
// face so each face keeps a flat normal.
func (b *gltfBuilder) addMesh(name string, corners [8]math.Vec3, faceNormals [6]math.Vec3) int {
	var positions, normals []float32
	var indices []uint16

	if b.opts.WriteNormals {
		for fi, f := range boxFaces {
			base := uint16(len(positions) / 3)
			for _, ci := range f.indices {
				c := corners[ci]
				positions = append(positions, float32(c.X), float32(c.Y), float32(c.Z))
				n := faceNormals[fi]
				normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
			}
			indices = append(indices, base, base+1, base+2, base, base+2, base+3)
		}
	} else {
		for _, c := range corners {
			positions = append(positions, float32(c.X), float32(c.Y), float32(c.Z))
		}
		for _, f := range boxFaces {
			indices = append(indices,
				uint16(f.indices[0]), uint16(f.indices[1]), uint16(f.indices[2]),
				uint16(f.indices[0]), uint16(f.indices[2]), uint16(f.indices[3]))
		}
	}

	attrs := map[string]int{
		"POSITION": b.addVec3Accessor(positions, true),
	}
	if b.opts.WriteNormals {
		attrs["NORMAL"] = b.addVec3Accessor(normals, false)
	}
	idxAccessor := b.addIndexAccessor(indices)

	mesh := len(b.doc.Meshes)
	b.doc.Meshes = append(b.doc.Meshes, gltfMesh{
		Name: name,
		Primitives: []gltfPrimitive{{
			Attributes: attrs,
			Indices:    &idxAccessor,
		}},
	})
	return mesh
}

// addVec3Accessor stores a float32 VEC3 stream and returns the
// accessor index. Position accessors carry the min/max the format
// requires.
func (b *gltfBuilder) addVec3Accessor(vals []float32, withBounds bool) int {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], stdmath.Float32bits(v))
	}
	view := b.addBufferView(buf, gltfTargetArrayBuffer)

	acc := gltfAccessor{
		BufferView:    &view,
		ComponentType: gltfComponentTypeFloat,
		Count:         len(vals) / 3,
		Type:          "VEC3",
	}
	if withBounds && len(vals) > 0 {
		min := []float32{vals[0], vals[1], vals[2]}
		max := []float32{vals[0], vals[1], vals[2]}
		for i := 3; i < len(vals); i += 3 {
			for c := 0; c < 3; c++ {
				if vals[i+c] < min[c] {
					min[c] = vals[i+c]
				}
				if vals[i+c] > max[c] {
					max[c] = vals[i+c]
				}
			}
		}
		acc.Min, acc.Max = min, max
	}

	idx := len(b.doc.Accessors)
	b.doc.Accessors = append(b.doc.Accessors, acc)
	return idx
}

// addIndexAccessor stores a uint16 SCALAR stream and returns the
// accessor index.
func (b *gltfBuilder) addIndexAccessor(vals []uint16) int {
	buf := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	view := b.addBufferView(buf, gltfTargetElementArrayBuffer)

	idx := len(b.doc.Accessors)
	b.doc.Accessors = append(b.doc.Accessors, gltfAccessor{
		BufferView:    &view,
		ComponentType: gltfComponentTypeUnsignedShort,
		Count:         len(vals),
		Type:          "SCALAR",
	})
	return idx
}

// addBufferView appends data to the binary buffer on a 4-byte boundary
// and returns the buffer view index.
func (b *gltfBuilder) addBufferView(data []byte, target int) int {
	for b.bin.Len()%4 != 0 {
		b.bin.WriteByte(0)
	}
	offset := b.bin.Len()
	b.bin.Write(data)

	t := target
	idx := len(b.doc.BufferViews)
	b.doc.BufferViews = append(b.doc.BufferViews, gltfBufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: len(data),
		Target:     &t,
	})
	return idx
}
