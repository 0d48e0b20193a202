package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Sidremus/cge-blender/internal/logger"
	"github.com/Sidremus/cge-blender/internal/scene"
)

// StaticSceneExporter serializes one posed scene snapshot to a
// self-contained document at the given path. Implementations must be
// synchronous and honor the pass-through settings in Options.
type StaticSceneExporter interface {
	Export(sc *scene.Scene, path string, opts *Options) error
}

// X3D documents open with a declaration and DOCTYPE that must be
// stripped before embedding: the container is a single outer XML
// document and cannot hold nested prologues.
const (
	X3DXMLDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`
	X3DDoctype        = `<!DOCTYPE X3D PUBLIC "ISO//Web3D//DTD X3D 3.0//EN" "http://www.web3d.org/specifications/x3d-3.0.dtd">`
)

// StripX3DPrologue removes the X3D XML declaration and DOCTYPE lines
// from a document so it can be embedded in the container.
func StripX3DPrologue(doc string) string {
	doc = strings.ReplaceAll(doc, X3DXMLDeclaration, "")
	return strings.ReplaceAll(doc, X3DDoctype, "")
}

// FrameExporter writes single <frame> elements: it poses the scene,
// computes the bounding box and embeds the static-scene document.
type FrameExporter struct {
	scene  *scene.Scene
	opts   *Options
	calc   *Calculator
	static StaticSceneExporter
}

// NewFrameExporter builds a frame exporter for one run.
func NewFrameExporter(sc *scene.Scene, opts *Options, static StaticSceneExporter) (*FrameExporter, error) {
	calc, err := NewCalculator(opts)
	if err != nil {
		return nil, err
	}
	return &FrameExporter{scene: sc, opts: opts, calc: calc, static: static}, nil
}

// EmitFrame appends one <frame> element for the given frame number to
// the sink. rangeStart shifts frame times so each animation block
// starts at time 0. A static exporter failure aborts without any
// recovery; whatever was flushed to the sink stays there.
func (e *FrameExporter) EmitFrame(w io.Writer, frame, rangeStart int) error {
	// Pose the scene before bounding boxes and duplicate realization.
	e.scene.SetFrame(frame)

	var realized *scene.RealizedDuplicates
	if e.opts.MakeDuplicatesReal {
		realized = e.scene.RealizeDuplicates()
	}

	box := e.calc.Compute(e.scene)

	_, err := fmt.Fprintf(w,
		"\t\t<frame time=\"%f\" mime_type=\"%s\" bounding_box_center=\"%f %f %f\" bounding_box_size=\"%f %f %f\">\n",
		float64(frame-rangeStart)/25.0,
		e.opts.Format.MimeType(),
		box.Center.X, box.Center.Y, box.Center.Z,
		box.Size.X, box.Size.Y, box.Size.Z)
	if err != nil {
		return err
	}

	doc, err := e.exportStaticDocument()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, doc); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n\t\t</frame>\n"); err != nil {
		return err
	}

	if realized != nil {
		if err := realized.Restore(); err != nil {
			return err
		}
	}
	return nil
}

// exportStaticDocument stages the current snapshot through a temporary
// file next to the output, reads it back and deletes it.
func (e *FrameExporter) exportStaticDocument() (string, error) {
	out := e.opts.OutputPath
	base := strings.TrimSuffix(out, filepath.Ext(out))
	tmpPath := base + "_tmp." + e.opts.Format.Extension()

	if err := e.static.Export(e.scene, tmpPath, e.opts); err != nil {
		return "", &ExporterError{Format: e.opts.Format, Path: tmpPath, Err: err}
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", &ExporterError{Format: e.opts.Format, Path: tmpPath, Err: err}
	}
	if err := os.Remove(tmpPath); err != nil {
		logger.Warn("could not remove staging file", zap.String("path", tmpPath), zap.Error(err))
	}

	doc := string(data)
	if e.opts.Format == FormatX3D {
		doc = StripX3DPrologue(doc)
	}
	return doc, nil
}
