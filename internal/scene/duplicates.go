package scene

import (
	"errors"
	"fmt"
)

// ErrIntegrity marks violations of the duplicate-realization
// invariants: object counts or the deletion selection not matching
// what the pre-realization snapshot promised.
var ErrIntegrity = errors.New("scene integrity violation")

// RealizedDuplicates captures the scene state before procedural
// duplicates were turned into real objects, so they can be removed
// again. Restore must run after the frame using the duplicates has
// been exported.
type RealizedDuplicates struct {
	scene         *Scene
	prevObjects   map[*Object]struct{}
	prevCount     int
	prevSelection map[*Object]bool
}

// RealizeDuplicates instantiates every emitter's procedural instances
// as real scene objects, so they carry bounding boxes and appear in
// static-frame exports. The returned handle removes them on Restore.
func (s *Scene) RealizeDuplicates() *RealizedDuplicates {
	r := &RealizedDuplicates{
		scene:         s,
		prevObjects:   make(map[*Object]struct{}, len(s.Objects)),
		prevCount:     len(s.Objects),
		prevSelection: make(map[*Object]bool, len(s.Objects)),
	}
	for _, o := range s.Objects {
		r.prevObjects[o] = struct{}{}
		r.prevSelection[o] = o.Selected
	}

	for _, o := range s.Objects {
		if o.Emitter == nil {
			continue
		}
		for i := 0; i < o.Emitter.Count; i++ {
			dup := &Object{
				Name:    fmt.Sprintf("%s.dup%03d", o.Name, i),
				Type:    o.Type,
				Visible: o.Visible,
				Base:    o.Pose,
				Pose:    o.Pose,
			}
			offset := o.Emitter.Spacing.Scale(float64(i + 1))
			dup.Base.Location = dup.Base.Location.Add(offset)
			dup.Pose.Location = dup.Pose.Location.Add(offset)
			dup.bound = o.bound
			s.Objects = append(s.Objects, dup)
		}
	}

	return r
}

// Restore deletes the objects created by RealizeDuplicates and puts
// the selection back. It verifies, step by step, that the external
// mutation primitives behaved: the object count may never drop below
// the pre-realization count, the deletion selection must cover exactly
// the newly created objects, and the final count must equal the
// pre-realization count.
func (r *RealizedDuplicates) Restore() error {
	s := r.scene

	if len(s.Objects) < r.prevCount {
		return fmt.Errorf("%w: fewer objects after realizing duplicates (%d -> %d)",
			ErrIntegrity, r.prevCount, len(s.Objects))
	}

	var created int
	for _, o := range s.Objects {
		if _, ok := r.prevObjects[o]; !ok {
			created++
		}
	}

	if created > 0 {
		selected := 0
		for _, o := range s.Objects {
			_, existed := r.prevObjects[o]
			o.Selected = !existed
			if o.Selected {
				selected++
			}
		}
		if selected != created {
			return fmt.Errorf("%w: selected %d objects for deletion, expected %d",
				ErrIntegrity, selected, created)
		}
		s.deleteSelected()
	}

	if len(s.Objects) != r.prevCount {
		return fmt.Errorf("%w: object count %d at start, %d after deleting duplicates",
			ErrIntegrity, r.prevCount, len(s.Objects))
	}

	for _, o := range s.Objects {
		o.Selected = r.prevSelection[o]
	}
	return nil
}
