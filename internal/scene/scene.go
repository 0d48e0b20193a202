// Package scene models the host scene graph the exporter samples:
// objects with transforms and bounding volumes, named actions bindable
// to objects, and the shared current-frame and selection state.
package scene

import (
	stdmath "math"

	"github.com/Sidremus/cge-blender/pkg/math"
)

// ObjectType classifies a scene object.
type ObjectType string

// Object types. Only mesh and curve objects contribute geometry;
// the rest are helpers that never enter bounding-box calculations.
const (
	TypeMesh     ObjectType = "mesh"
	TypeCurve    ObjectType = "curve"
	TypeArmature ObjectType = "armature"
	TypeLattice  ObjectType = "lattice"
	TypeEmpty    ObjectType = "empty"
	TypeCamera   ObjectType = "camera"
	TypeLight    ObjectType = "light"
	TypeSpeaker  ObjectType = "speaker"
)

// Renderable reports whether objects of this type contribute geometry.
func (t ObjectType) Renderable() bool {
	switch t {
	case TypeArmature, TypeLattice, TypeEmpty, TypeCamera, TypeLight, TypeSpeaker:
		return false
	}
	return true
}

// Transform is a location / rotation / scale triple. Rotation is an
// XYZ Euler in degrees.
type Transform struct {
	Location math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

// Matrix returns the transform as a matrix (translate * rotate * scale).
func (t Transform) Matrix() math.Mat4 {
	rot := math.QuatFromEulerXYZ(
		t.Rotation.X*stdmath.Pi/180,
		t.Rotation.Y*stdmath.Pi/180,
		t.Rotation.Z*stdmath.Pi/180,
	).Mat4()
	tr := math.Translate(t.Location.X, t.Location.Y, t.Location.Z)
	sc := math.Scale(t.Scale.X, t.Scale.Y, t.Scale.Z)
	return tr.Mul(rot).Mul(sc)
}

// AnimationData holds an object's active action binding.
type AnimationData struct {
	Action *Action
}

// Object is a single scene object.
type Object struct {
	Name     string
	Type     ObjectType
	Visible  bool
	Selected bool
	Parent   *Object

	// Base is the rest transform, used when no action channel drives
	// a component. Pose is the transform evaluated at the current frame.
	Base Transform
	Pose Transform

	// Anim is nil for objects without animation data.
	Anim *AnimationData

	// Emitter is set for objects that generate procedural duplicates.
	Emitter *Emitter

	bound [8]math.Vec3
}

// Emitter describes procedural instancing on an object. Each of the
// Count instances is placed at the object's position plus Spacing
// scaled by the 1-based instance index.
type Emitter struct {
	Count   int
	Spacing math.Vec3
}

// BoundBox returns the 8 corners of the object's local bounding box.
func (o *Object) BoundBox() [8]math.Vec3 {
	return o.bound
}

// SetBound sets the local bounding box from min/max corners.
func (o *Object) SetBound(min, max math.Vec3) {
	o.bound = [8]math.Vec3{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
	}
}

// SetBoundUninitialized marks the bounding box with the host sentinel:
// all 24 coordinate components set to -1.
func (o *Object) SetBoundUninitialized() {
	for i := range o.bound {
		o.bound[i] = math.Vec3{X: -1, Y: -1, Z: -1}
	}
}

// BoundUninitialized reports whether the local bounding box carries the
// uninitialized sentinel (every component equal to -1).
func (o *Object) BoundUninitialized() bool {
	for _, c := range o.bound {
		if c.X != -1 || c.Y != -1 || c.Z != -1 {
			return false
		}
	}
	return true
}

// WorldMatrix returns the object's world transform at the current pose,
// including parent transforms.
func (o *Object) WorldMatrix() math.Mat4 {
	local := o.Pose.Matrix()
	if o.Parent != nil {
		return o.Parent.WorldMatrix().Mul(local)
	}
	return local
}

// UsesAction reports whether the object references the action, either
// as its active binding or as a channel target. Callers pair this with
// the action's fake-user flag: channel-target detection alone misses
// actions that are merely pinned.
func (o *Object) UsesAction(a *Action) bool {
	if o.Anim != nil && o.Anim.Action == a {
		return true
	}
	return a.Targets(o.Name)
}

// BindAction makes the action the object's active animation source.
func (o *Object) BindAction(a *Action) {
	if o.Anim == nil {
		o.Anim = &AnimationData{}
	}
	o.Anim.Action = a
}

// Scene is the full object graph plus the shared mutable state every
// export phase depends on: the current frame and the selection.
type Scene struct {
	Objects []*Object
	Actions []*Action

	FrameStart int
	FrameEnd   int
	FPS        int

	frame int
}

// Frame returns the current animation frame.
func (s *Scene) Frame() int {
	return s.frame
}

// SetFrame sets the current animation frame and re-evaluates every
// object's pose from its bound action.
func (s *Scene) SetFrame(frame int) {
	s.frame = frame
	for _, o := range s.Objects {
		o.Pose = s.evaluate(o, float64(frame))
	}
}

// evaluate resolves an object's pose at the given frame. Components
// without a driving channel keep their base value.
func (s *Scene) evaluate(o *Object, frame float64) Transform {
	pose := o.Base
	if o.Anim == nil || o.Anim.Action == nil {
		return pose
	}
	ch := o.Anim.Action.Channels[o.Name]
	if ch == nil {
		return pose
	}
	if v, ok := ch.Location.Evaluate(frame); ok {
		pose.Location = v
	}
	if v, ok := ch.Rotation.Evaluate(frame); ok {
		pose.Rotation = v
	}
	if v, ok := ch.Scale.Evaluate(frame); ok {
		pose.Scale = v
	}
	return pose
}

// Object returns the object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Action returns the action with the given name, or nil.
func (s *Scene) Action(name string) *Action {
	for _, a := range s.Actions {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Remove deletes the named object from the scene.
func (s *Scene) Remove(name string) {
	for i, o := range s.Objects {
		if o.Name == name {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return
		}
	}
}

// deleteSelected removes every selected object.
func (s *Scene) deleteSelected() {
	kept := s.Objects[:0]
	for _, o := range s.Objects {
		if !o.Selected {
			kept = append(kept, o)
		}
	}
	s.Objects = kept
}

// DefaultActionsObject returns the name of the single visible armature
// with animation data, or "" when there is none or more than one.
func (s *Scene) DefaultActionsObject() string {
	var found *Object
	for _, o := range s.Objects {
		if o.Type == TypeArmature && o.Visible && o.Anim != nil {
			if found != nil {
				return ""
			}
			found = o
		}
	}
	if found == nil {
		return ""
	}
	return found.Name
}
