package exporter

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Sidremus/cge-blender/internal/export"
	"github.com/Sidremus/cge-blender/internal/logger"
	"github.com/Sidremus/cge-blender/internal/scene"
	"github.com/Sidremus/cge-blender/pkg/math"
)

// X3DExporter writes one X3D 3.0 XML document per scene snapshot.
// Objects become Transform nodes with a bounding-cuboid Shape; helper
// objects become bare grouping Transforms.
type X3DExporter struct{}

// Export serializes the scene's current pose to path.
func (e *X3DExporter) Export(sc *scene.Scene, path string, opts *export.Options) error {
	var sb strings.Builder
	e.write(&sb, sc, opts)
	logger.Debug("wrote x3d snapshot",
		zap.String("path", path), zap.Int("frame", sc.Frame()))
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func (e *X3DExporter) write(sb *strings.Builder, sc *scene.Scene, opts *export.Options) {
	sb.WriteString(export.X3DXMLDeclaration + "\n")
	sb.WriteString(export.X3DDoctype + "\n")
	sb.WriteString("<X3D profile=\"Immersive\" version=\"3.0\">\n")
	sb.WriteString("\t<head>\n")
	if opts.H3DExtensions {
		sb.WriteString("\t\t<component name=\"H3DAPI\" level=\"1\"/>\n")
	}
	sb.WriteString("\t\t<meta name=\"generator\" content=\"cge-blender animframes\"/>\n")
	sb.WriteString("\t</head>\n")
	sb.WriteString("\t<Scene>\n")

	if opts.WriteHierarchy {
		children := childIndex(sc)
		for _, o := range sc.Objects {
			if o.Parent == nil && emitNode(o, children, opts) {
				e.writeTransform(sb, o, children, opts, 2)
			}
		}
	} else {
		for _, o := range sc.Objects {
			if included(o, opts) && hasGeometry(o) {
				e.writeFlatShape(sb, o, opts, 2)
			}
		}
	}

	sb.WriteString("\t</Scene>\n")
	sb.WriteString("</X3D>\n")
}

// writeTransform emits one object as a nested Transform node. Excluded
// objects still wrap included descendants so placement stays correct.
func (e *X3DExporter) writeTransform(sb *strings.Builder, o *scene.Object, children map[*scene.Object][]*scene.Object, opts *export.Options, depth int) {
	ind := strings.Repeat("\t", depth)
	axis, angle := poseRotation(o).AxisAngle()
	fmt.Fprintf(sb,
		"%s<Transform DEF=\"%s\" translation=\"%g %g %g\" rotation=\"%g %g %g %g\" scale=\"%g %g %g\">\n",
		ind, xmlEscape(decorated("OB_", o.Name, opts)),
		o.Pose.Location.X, o.Pose.Location.Y, o.Pose.Location.Z,
		axis.X, axis.Y, axis.Z, angle,
		o.Pose.Scale.X, o.Pose.Scale.Y, o.Pose.Scale.Z)

	if included(o, opts) && hasGeometry(o) {
		var normals [6]math.Vec3
		for i, f := range boxFaces {
			normals[i] = f.normal
		}
		e.writeShape(sb, decorated("ME_", o.Name, opts), o.BoundBox(), normals, opts, depth+1)
	}
	for _, c := range children[o] {
		if emitNode(c, children, opts) {
			e.writeTransform(sb, c, children, opts, depth+1)
		}
	}

	fmt.Fprintf(sb, "%s</Transform>\n", ind)
}

// writeFlatShape emits an object with its cuboid baked into world
// space, for exports without a transform hierarchy.
func (e *X3DExporter) writeFlatShape(sb *strings.Builder, o *scene.Object, opts *export.Options, depth int) {
	world := o.WorldMatrix()
	var normals [6]math.Vec3
	for i, f := range boxFaces {
		normals[i] = world.TransformDirection(f.normal).Normalize()
	}
	e.writeShape(sb, decorated("ME_", o.Name, opts), worldCorners(o), normals, opts, depth)
}

func (e *X3DExporter) writeShape(sb *strings.Builder, name string, corners [8]math.Vec3, normals [6]math.Vec3, opts *export.Options, depth int) {
	ind := strings.Repeat("\t", depth)
	fmt.Fprintf(sb, "%s<Shape>\n", ind)
	fmt.Fprintf(sb, "%s\t<Appearance>\n%s\t\t<Material/>\n%s\t</Appearance>\n", ind, ind, ind)

	var coordIndex strings.Builder
	for _, f := range boxFaces {
		if opts.Triangulate {
			fmt.Fprintf(&coordIndex, "%d %d %d -1 %d %d %d -1 ",
				f.indices[0], f.indices[1], f.indices[2],
				f.indices[0], f.indices[2], f.indices[3])
		} else {
			fmt.Fprintf(&coordIndex, "%d %d %d %d -1 ",
				f.indices[0], f.indices[1], f.indices[2], f.indices[3])
		}
	}

	fmt.Fprintf(sb, "%s\t<IndexedFaceSet DEF=\"%s\" solid=\"true\" normalPerVertex=\"false\" coordIndex=\"%s\">\n",
		ind, xmlEscape(name), strings.TrimSpace(coordIndex.String()))

	var points strings.Builder
	for _, c := range corners {
		fmt.Fprintf(&points, "%g %g %g ", c.X, c.Y, c.Z)
	}
	fmt.Fprintf(sb, "%s\t\t<Coordinate point=\"%s\"/>\n", ind, strings.TrimSpace(points.String()))

	if opts.WriteNormals {
		var vectors strings.Builder
		for _, n := range normals {
			fmt.Fprintf(&vectors, "%g %g %g ", n.X, n.Y, n.Z)
			if opts.Triangulate {
				// One normal per face, so triangulated faces repeat it.
				fmt.Fprintf(&vectors, "%g %g %g ", n.X, n.Y, n.Z)
			}
		}
		fmt.Fprintf(sb, "%s\t\t<Normal vector=\"%s\"/>\n", ind, strings.TrimSpace(vectors.String()))
	}

	fmt.Fprintf(sb, "%s\t</IndexedFaceSet>\n", ind)
	fmt.Fprintf(sb, "%s</Shape>\n", ind)
}

// xmlEscape escapes a string for use in an XML attribute value.
func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
