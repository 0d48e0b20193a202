// Package config handles exporter configuration loading and management.
package config

import (
	"github.com/Sidremus/cge-blender/internal/export"
)

// Config holds all exporter settings.
type Config struct {
	Files   FilesConfig   `yaml:"files"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// FilesConfig holds input and output file paths.
type FilesConfig struct {
	ScenePath  string `yaml:"scene_path"`  // Scene document to export
	OutputPath string `yaml:"output_path"` // Container file to write
}

// ExportConfig holds the export run settings.
type ExportConfig struct {
	Format             string `yaml:"format"`
	FrameSkip          int    `yaml:"frame_skip"`
	AxisForward        string `yaml:"axis_forward"`
	AxisUp             string `yaml:"axis_up"`
	SelectionOnly      bool   `yaml:"selection_only"`
	ApplyModifiers     bool   `yaml:"apply_modifiers"`
	Triangulate        bool   `yaml:"triangulate"`
	WriteNormals       bool   `yaml:"write_normals"`
	WriteHierarchy     bool   `yaml:"write_hierarchy"`
	NameDecorations    bool   `yaml:"name_decorations"`
	H3DExtensions      bool   `yaml:"h3d_extensions"`
	PathMode           string `yaml:"path_mode"`
	MakeDuplicatesReal bool   `yaml:"make_duplicates_real"`
	ActionsObject      string `yaml:"actions_object"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Format:          "gltf",
			FrameSkip:       4,
			AxisForward:     "Z",
			AxisUp:          "Y",
			ApplyModifiers:  true,
			WriteHierarchy:  true,
			NameDecorations: true,
			PathMode:        "auto",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ExportOptions converts the configuration into export options,
// parsing the format and axis names.
func (c *Config) ExportOptions() (*export.Options, error) {
	format, err := export.ParseFormat(c.Export.Format)
	if err != nil {
		return nil, err
	}
	forward, err := export.ParseAxis(c.Export.AxisForward)
	if err != nil {
		return nil, err
	}
	up, err := export.ParseAxis(c.Export.AxisUp)
	if err != nil {
		return nil, err
	}

	opts := &export.Options{
		FrameSkip:          c.Export.FrameSkip,
		Format:             format,
		AxisForward:        forward,
		AxisUp:             up,
		SelectionOnly:      c.Export.SelectionOnly,
		ApplyModifiers:     c.Export.ApplyModifiers,
		Triangulate:        c.Export.Triangulate,
		WriteNormals:       c.Export.WriteNormals,
		WriteHierarchy:     c.Export.WriteHierarchy,
		NameDecorations:    c.Export.NameDecorations,
		H3DExtensions:      c.Export.H3DExtensions,
		PathMode:           c.Export.PathMode,
		MakeDuplicatesReal: c.Export.MakeDuplicatesReal,
		ActionsObject:      c.Export.ActionsObject,
		OutputPath:         c.Files.OutputPath,
	}
	return opts, opts.Validate()
}
