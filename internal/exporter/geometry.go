package exporter

import (
	stdmath "math"

	"github.com/Sidremus/cge-blender/internal/export"
	"github.com/Sidremus/cge-blender/internal/scene"
	"github.com/Sidremus/cge-blender/pkg/math"
)

// boxFace is one side of an object's bounding cuboid. Indices refer to
// the corner order of Object.BoundBox; windings face outward.
type boxFace struct {
	indices [4]int
	normal  math.Vec3
}

var boxFaces = [6]boxFace{
	{[4]int{0, 1, 2, 3}, math.Vec3{X: -1}},
	{[4]int{4, 7, 6, 5}, math.Vec3{X: 1}},
	{[4]int{0, 4, 5, 1}, math.Vec3{Y: -1}},
	{[4]int{3, 2, 6, 7}, math.Vec3{Y: 1}},
	{[4]int{0, 3, 7, 4}, math.Vec3{Z: -1}},
	{[4]int{1, 5, 6, 2}, math.Vec3{Z: 1}},
}

// included reports whether an object takes part in the export at all.
func included(o *scene.Object, opts *export.Options) bool {
	if !o.Visible {
		return false
	}
	if opts.SelectionOnly && !o.Selected {
		return false
	}
	return true
}

// hasGeometry reports whether the object contributes a shape. Helper
// types and objects with the uninitialized bound sentinel do not.
func hasGeometry(o *scene.Object) bool {
	return o.Type.Renderable() && !o.BoundUninitialized()
}

// decorated prefixes a name the way the host's exporters label nodes,
// unless decorations are disabled.
func decorated(prefix, name string, opts *export.Options) string {
	if opts.NameDecorations {
		return prefix + name
	}
	return name
}

// childIndex maps every object to its direct children.
func childIndex(sc *scene.Scene) map[*scene.Object][]*scene.Object {
	idx := make(map[*scene.Object][]*scene.Object)
	for _, o := range sc.Objects {
		if o.Parent != nil {
			idx[o.Parent] = append(idx[o.Parent], o)
		}
	}
	return idx
}

// emitNode reports whether a hierarchy node is worth writing: the
// object itself is included, or some descendant is. Excluded ancestors
// still wrap their children so placement stays correct.
func emitNode(o *scene.Object, children map[*scene.Object][]*scene.Object, opts *export.Options) bool {
	if included(o, opts) {
		return true
	}
	for _, c := range children[o] {
		if emitNode(c, children, opts) {
			return true
		}
	}
	return false
}

// worldCorners returns the bounding cuboid corners baked into world
// space, for flat exports that carry no transform nodes.
func worldCorners(o *scene.Object) [8]math.Vec3 {
	world := o.WorldMatrix()
	var out [8]math.Vec3
	for i, c := range o.BoundBox() {
		out[i] = world.TransformPoint(c)
	}
	return out
}

// poseRotation returns the object's pose rotation as a quaternion.
func poseRotation(o *scene.Object) math.Quat {
	r := o.Pose.Rotation
	return math.QuatFromEulerXYZ(
		r.X*stdmath.Pi/180,
		r.Y*stdmath.Pi/180,
		r.Z*stdmath.Pi/180,
	)
}
