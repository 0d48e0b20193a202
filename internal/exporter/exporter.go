// Package exporter holds the static-scene document writers embedded
// into castle-anim-frames containers: an X3D XML writer and a glTF 2.0
// writer. Both serialize the scene's current pose; the motion itself
// lives in the container, never in the embedded documents.
package exporter

import (
	"fmt"

	"github.com/Sidremus/cge-blender/internal/export"
)

// ForFormat returns the static-scene exporter for a frame format.
func ForFormat(f export.Format) (export.StaticSceneExporter, error) {
	switch f {
	case export.FormatGLTF:
		return &GLTFExporter{}, nil
	case export.FormatX3D:
		return &X3DExporter{}, nil
	}
	return nil, fmt.Errorf("no static exporter for format %q", f)
}
