package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Scene document to export")
	flagOutput     = flag.String("output", "", "Container file to write")
	flagFormat     = flag.String("format", "", "Frame format (gltf or x3d)")
	flagFrameSkip  = flag.Int("frame-skip", -1, "Frames to skip between exported frames (0..50)")
	flagForward    = flag.String("forward", "", "Target forward axis (X, Y, Z, -X, -Y, -Z)")
	flagUp         = flag.String("up", "", "Target up axis (X, Y, Z, -X, -Y, -Z)")
	flagSelected   = flag.Bool("selected", false, "Export selected objects only")
	flagActions    = flag.String("actions", "", "Export every action of the named object")
	flagDuplicates = flag.Bool("duplicates", false, "Realize procedural duplicates per frame")

	flagTriangulate   = flag.Bool("triangulate", false, "Triangulate geometry in embedded documents")
	flagNormals       = flag.Bool("normals", false, "Write normals in embedded documents")
	flagFlat          = flag.Bool("flat", false, "Skip the transform hierarchy, bake world space")
	flagNoDecorations = flag.Bool("no-decorations", false, "Skip OB_/ME_ name decorations")
	flagNoModifiers   = flag.Bool("no-modifiers", false, "Skip modifier application")
	flagH3D           = flag.Bool("h3d", false, "Enable H3D extensions in X3D documents")
	flagPathMode      = flag.String("path-mode", "", "Path mode for referenced resources")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Files.ScenePath = *flagScene
	}
	if *flagOutput != "" {
		cfg.Files.OutputPath = *flagOutput
	}
	if *flagFormat != "" {
		cfg.Export.Format = *flagFormat
	}
	if *flagFrameSkip >= 0 {
		cfg.Export.FrameSkip = *flagFrameSkip
	}
	if *flagForward != "" {
		cfg.Export.AxisForward = *flagForward
	}
	if *flagUp != "" {
		cfg.Export.AxisUp = *flagUp
	}
	if *flagSelected {
		cfg.Export.SelectionOnly = true
	}
	if *flagActions != "" {
		cfg.Export.ActionsObject = *flagActions
	}
	if *flagDuplicates {
		cfg.Export.MakeDuplicatesReal = true
	}
	if *flagTriangulate {
		cfg.Export.Triangulate = true
	}
	if *flagNormals {
		cfg.Export.WriteNormals = true
	}
	if *flagFlat {
		cfg.Export.WriteHierarchy = false
	}
	if *flagNoDecorations {
		cfg.Export.NameDecorations = false
	}
	if *flagNoModifiers {
		cfg.Export.ApplyModifiers = false
	}
	if *flagH3D {
		cfg.Export.H3DExtensions = true
	}
	if *flagPathMode != "" {
		cfg.Export.PathMode = *flagPathMode
	}
}
