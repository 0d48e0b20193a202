package export

import (
	"fmt"
	"strings"

	"github.com/Sidremus/cge-blender/pkg/math"
)

// Axis is a 6-way signed axis label.
type Axis int

// Axis labels.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisNegX
	AxisNegY
	AxisNegZ
)

var axisNames = [...]string{"X", "Y", "Z", "-X", "-Y", "-Z"}

// String returns the axis label.
func (a Axis) String() string {
	if a < AxisX || a > AxisNegZ {
		return "?"
	}
	return axisNames[a]
}

// Vec returns the unit vector for the axis.
func (a Axis) Vec() math.Vec3 {
	switch a {
	case AxisX:
		return math.Vec3{X: 1}
	case AxisY:
		return math.Vec3{Y: 1}
	case AxisZ:
		return math.Vec3{Z: 1}
	case AxisNegX:
		return math.Vec3{X: -1}
	case AxisNegY:
		return math.Vec3{Y: -1}
	case AxisNegZ:
		return math.Vec3{Z: -1}
	}
	return math.Vec3{}
}

// ParseAxis parses an axis label such as "Z" or "-Y".
func ParseAxis(s string) (Axis, error) {
	for i, name := range axisNames {
		if strings.EqualFold(s, name) {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q (want X, Y, Z, -X, -Y or -Z)", s)
}

// sameAxis reports whether two labels name the same axis, ignoring sign.
func sameAxis(a, b Axis) bool {
	return a%3 == b%3
}

// AxisMatrix returns the conversion from the host axis convention
// (forward +Y, up +Z) to the requested target convention: the proper
// rotation mapping host forward to the target forward axis and host up
// to the target up axis. Forward and up may not share an axis.
func AxisMatrix(forward, up Axis) (math.Mat4, error) {
	if sameAxis(forward, up) {
		return math.Identity(), fmt.Errorf("forward axis %s and up axis %s conflict", forward, up)
	}
	f := forward.Vec()
	u := up.Vec()
	return math.FromBasis(f.Cross(u), f, u), nil
}
