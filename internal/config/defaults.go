package config

// Threshold defaults. The low 1% floor keeps rename and copy following as
// permissive as the legacy tool.
const (
	DefaultRenameThreshold = "1%"
	DefaultCopyThreshold   = "1%"
)

// HTML rendering defaults. An empty renderer selects the default external
// command.
const (
	DefaultHTMLEnabled  = false
	DefaultHTMLRenderer = ""
)

// Output defaults. An empty dir derives the directory name from the tracked
// filename.
const (
	DefaultOutputDir      = ""
	DefaultOutputCompress = false
	DefaultOutputManifest = false
	DefaultOutputPlot     = false
)

// DefaultLimit disables the commit count cap.
const DefaultLimit = 0
