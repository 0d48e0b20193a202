package export

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Sidremus/cge-blender/internal/logger"
	"github.com/Sidremus/cge-blender/internal/scene"
)

// defaultBlockName names the single animation block of a whole-scene export.
const defaultBlockName = "animation"

// ContainerExporter drives one export run: it opens the output
// container, writes the XML prologue and root element, exports one or
// more animation blocks and closes the container. A run either fully
// completes or aborts leaving a truncated file behind.
type ContainerExporter struct {
	scene  *scene.Scene
	opts   *Options
	static StaticSceneExporter
}

// NewContainerExporter builds an exporter for one run.
func NewContainerExporter(sc *scene.Scene, opts *Options, static StaticSceneExporter) *ContainerExporter {
	return &ContainerExporter{scene: sc, opts: opts, static: static}
}

// Run executes the export.
func (c *ContainerExporter) Run() error {
	if err := c.opts.Validate(); err != nil {
		return err
	}

	fe, err := NewFrameExporter(c.scene, c.opts, c.static)
	if err != nil {
		return err
	}

	f, err := os.Create(c.opts.OutputPath)
	if err != nil {
		return err
	}
	if err := c.export(f, fe); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *ContainerExporter) export(w io.Writer, fe *FrameExporter) error {
	if _, err := io.WriteString(w, "<?xml version=\"1.0\"?>\n<animations>\n"); err != nil {
		return err
	}

	if c.opts.ActionsObject != "" {
		if err := c.exportActions(w, fe); err != nil {
			return err
		}
	} else {
		if c.scene.FrameStart > c.scene.FrameEnd {
			return fmt.Errorf("invalid scene frame range %d..%d", c.scene.FrameStart, c.scene.FrameEnd)
		}
		logger.Info("exporting scene animation",
			zap.Int("start", c.scene.FrameStart),
			zap.Int("end", c.scene.FrameEnd))
		if err := fe.WriteBlock(w, defaultBlockName, c.scene.FrameStart, c.scene.FrameEnd); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</animations>\n")
	return err
}

// exportActions writes one animation block per action of the
// designated object, in action discovery order. The object's
// originally bound action is restored on every exit path: an exported
// action left active would otherwise survive the run with the
// original binding lost.
func (c *ContainerExporter) exportActions(w io.Writer, fe *FrameExporter) error {
	obj := c.scene.Object(c.opts.ActionsObject)
	if obj == nil {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, c.opts.ActionsObject)
	}

	// Collect before rebinding anything: changing the active action
	// can make a previously bound action look unused. Usage detection
	// alone is unreliable, so pinned (fake-user) actions are always
	// included.
	var toExport []*scene.Action
	for _, action := range c.scene.Actions {
		if obj.UsesAction(action) || action.FakeUser {
			toExport = append(toExport, action)
		}
	}
	if len(toExport) == 0 {
		return fmt.Errorf("%w on object %q", ErrNoActionFound, c.opts.ActionsObject)
	}

	var original *scene.Action
	if obj.Anim != nil {
		original = obj.Anim.Action
	}
	defer obj.BindAction(original)

	for _, action := range toExport {
		first, last := action.FrameRange()
		start, end := int(first), int(last)

		obj.BindAction(action)
		logger.Info("exporting action",
			zap.String("action", action.Name),
			zap.Int("start", start),
			zap.Int("end", end))

		if err := fe.WriteBlock(w, action.Name, start, end); err != nil {
			return err
		}
	}
	return nil
}
