package export

import (
	"fmt"
	"io"
)

// WriteBlock writes one <animation> element covering the inclusive
// frame range, emitting every sampled frame. An empty name renders an
// unnamed element.
func (e *FrameExporter) WriteBlock(w io.Writer, name string, frameStart, frameEnd int) error {
	var err error
	if name != "" {
		_, err = fmt.Fprintf(w, "\t<animation name=\"%s\">\n", name)
	} else {
		_, err = io.WriteString(w, "\t<animation>\n")
	}
	if err != nil {
		return err
	}

	for _, frame := range Sample(frameStart, frameEnd, e.opts.FrameSkip) {
		if err := e.EmitFrame(w, frame, frameStart); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, "\t</animation>\n")
	return err
}
