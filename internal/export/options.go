// Package export assembles castle-anim-frames containers: it samples
// animation frames, computes per-frame bounding volumes and wraps
// static-scene documents produced by a StaticSceneExporter into the
// container XML.
package export

import (
	"fmt"
	"strings"
)

// Format selects the static-scene document format for embedded frames.
type Format int

// Supported frame formats.
const (
	FormatGLTF Format = iota
	FormatX3D
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatX3D {
		return "x3d"
	}
	return "gltf"
}

// MimeType returns the mime type recorded on each frame element.
func (f Format) MimeType() string {
	if f == FormatX3D {
		return "model/x3d+vrml"
	}
	return "model/gltf+json"
}

// Extension returns the file extension used for staging documents.
func (f Format) Extension() string {
	return f.String()
}

// ParseFormat parses a frame format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "gltf":
		return FormatGLTF, nil
	case "x3d":
		return FormatX3D, nil
	}
	return 0, fmt.Errorf("unknown frame format %q (want gltf or x3d)", s)
}

// Options holds one export run's settings. Options are created by the
// caller and never mutated by the exporter.
type Options struct {
	// FrameSkip is how many frames to skip between exported frames.
	// 0 exports every frame; the maximum is 50.
	FrameSkip int

	// Format selects X3D or glTF static-scene documents.
	Format Format

	// AxisForward and AxisUp define the target axis convention for
	// bounding-box calculation.
	AxisForward Axis
	AxisUp      Axis

	// SelectionOnly restricts the export to selected objects.
	SelectionOnly bool

	// Pass-through settings for the static-scene exporters.
	ApplyModifiers  bool
	Triangulate     bool
	WriteNormals    bool
	WriteHierarchy  bool
	NameDecorations bool
	H3DExtensions   bool
	PathMode        string

	// MakeDuplicatesReal realizes procedural duplicates before each
	// frame's bounding box and document are produced.
	MakeDuplicatesReal bool

	// ActionsObject selects per-action export: every action of the
	// named object becomes one animation block. Empty exports the
	// scene frame range as a single block.
	ActionsObject string

	// OutputPath is the container file to write.
	OutputPath string
}

// MaxFrameSkip is the largest accepted frame skip.
const MaxFrameSkip = 50

// DefaultOptions returns the options the CLI starts from.
func DefaultOptions() Options {
	return Options{
		FrameSkip:       4,
		Format:          FormatGLTF,
		AxisForward:     AxisZ,
		AxisUp:          AxisY,
		ApplyModifiers:  true,
		WriteHierarchy:  true,
		NameDecorations: true,
		PathMode:        "auto",
	}
}

// Validate checks option constraints before a run.
func (o *Options) Validate() error {
	if o.FrameSkip < 0 || o.FrameSkip > MaxFrameSkip {
		return fmt.Errorf("frame skip %d out of range [0, %d]", o.FrameSkip, MaxFrameSkip)
	}
	if o.OutputPath == "" {
		return fmt.Errorf("output path not set")
	}
	if _, err := AxisMatrix(o.AxisForward, o.AxisUp); err != nil {
		return err
	}
	return nil
}
