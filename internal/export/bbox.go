package export

import (
	"github.com/Sidremus/cge-blender/internal/scene"
	"github.com/Sidremus/cge-blender/pkg/math"
)

// BoundingBox is a world-space axis-aligned bounding box given as
// center and size. An empty box (no eligible geometry) is the sentinel
// center (0, 0, 0), size (-1, -1, -1), the X3D Group bboxCenter/Size
// convention. Real boxes can never produce it since their sizes are
// non-negative.
type BoundingBox struct {
	Center math.Vec3
	Size   math.Vec3
}

// EmptyBoundingBox returns the empty-box sentinel.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{Size: math.Vec3{X: -1, Y: -1, Z: -1}}
}

// IsEmpty reports whether the box is the empty sentinel.
func (b BoundingBox) IsEmpty() bool {
	return b.Size.X < 0
}

// Calculator computes scene bounding boxes under a fixed axis
// conversion and selection filter. The conversion matrix is built once
// and shared across all objects of every computation.
type Calculator struct {
	global        math.Mat4
	selectionOnly bool
}

// NewCalculator builds a calculator for the run's options.
func NewCalculator(opts *Options) (*Calculator, error) {
	global, err := AxisMatrix(opts.AxisForward, opts.AxisUp)
	if err != nil {
		return nil, err
	}
	return &Calculator{global: global, selectionOnly: opts.SelectionOnly}, nil
}

// Compute returns the world-space bounding box of all visible (or
// selected, under selection-only) renderable objects at the scene's
// current pose. Scenes without eligible geometry yield the empty
// sentinel rather than an error.
func (c *Calculator) Compute(sc *scene.Scene) BoundingBox {
	empty := true
	var boxMin, boxMax math.Vec3

	for _, obj := range sc.Objects {
		if !obj.Visible {
			continue
		}
		if c.selectionOnly && !obj.Selected {
			continue
		}
		// Helper objects would otherwise contribute a bogus box.
		if !obj.Type.Renderable() {
			continue
		}
		if obj.BoundUninitialized() {
			continue
		}

		world := c.global.Mul(obj.WorldMatrix())
		for _, corner := range obj.BoundBox() {
			p := world.TransformPoint(corner)
			if empty {
				boxMin, boxMax = p, p
				empty = false
				continue
			}
			boxMin = boxMin.Min(p)
			boxMax = boxMax.Max(p)
		}
	}

	if empty {
		return EmptyBoundingBox()
	}
	return BoundingBox{
		Center: boxMin.Add(boxMax).Scale(0.5),
		Size:   boxMax.Sub(boxMin),
	}
}
