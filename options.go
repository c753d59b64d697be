package amb

// buildConfig holds resolved configuration for BuildBook.
type buildConfig struct {
	title          string
	codepage       string
	limits         Limits
	buildIndex     bool
	embeddedSource bool
	sourceComp     SourceCompression
	diagnostics    func(string)
}

// BuildOption is a functional option for configuring BuildBook.
type BuildOption func(*buildConfig)

// WithTitle sets the optional book title stored as the archive's TITLE
// payload. Non-ASCII characters are dropped and the result truncated to
// 64 bytes, per §4.F.
func WithTitle(title string) BuildOption {
	return func(c *buildConfig) { c.title = title }
}

// WithCodepage selects the codepage used to encode every AMA payload.
// Default is "437". See codepage.go for the full alias table.
func WithCodepage(name string) BuildOption {
	return func(c *buildConfig) { c.codepage = name }
}

// WithLimits sets custom discovery/size limits. Zero fields in l are
// replaced with safe defaults.
func WithLimits(l Limits) BuildOption {
	return func(c *buildConfig) { c.limits = l }
}

// WithWordIndex controls whether BuildBook attempts to build DICT.IDX at
// all. Default true. A build-time failure of the index (§4.E,
// ErrTooManyFilesPerWord / ErrDictionaryTooLarge) never aborts the run
// either way; this option only saves the work when a caller knows they
// don't want an index.
func WithWordIndex(v bool) BuildOption {
	return func(c *buildConfig) { c.buildIndex = v }
}

// WithEmbeddedSource controls whether the original Markdown source tree is
// appended to the archive as a compressed supplemental payload (see
// internal/bookzip). Default false: most callers only want the AMB1
// directory spec.md describes.
func WithEmbeddedSource(v bool) BuildOption {
	return func(c *buildConfig) { c.embeddedSource = v }
}

// WithEmbeddedSourceCompression selects the compressor used for the
// embedded source bundle when WithEmbeddedSource is enabled. Default is
// source compression zstd.
func WithEmbeddedSourceCompression(comp SourceCompression) BuildOption {
	return func(c *buildConfig) { c.sourceComp = comp }
}

// WithDiagnostics registers a callback invoked with human-readable
// non-fatal notices, such as the §7 diagnostic logged when DICT.IDX
// cannot be built. The CLI wires this to log.Print.
func WithDiagnostics(fn func(string)) BuildOption {
	return func(c *buildConfig) { c.diagnostics = fn }
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		codepage:    "437",
		limits:      defaultLimits(),
		buildIndex:  true,
		sourceComp:  CompZSTD,
		diagnostics: func(string) {},
	}
}

func (c buildConfig) resolved() buildConfig {
	c.limits = c.limits.withDefaults()
	if c.codepage == "" {
		c.codepage = "437"
	}
	if c.diagnostics == nil {
		c.diagnostics = func(string) {}
	}
	return c
}
