package mdgen

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config wires the whole generator: where content lives, how Markdown is
// rendered, where layout templates come from, and how the module logs.
type Config struct {
	// ContentRoot is the directory holding both the source and artifact
	// trees. Compiler paths are resolved relative to it.
	ContentRoot string `json:"content_root"`

	Compiler  CompilerConfig  `json:"compiler"`
	Templates TemplatesConfig `json:"templates"`
	Logging   LoggingConfig   `json:"logging"`
}

// CompilerConfig controls the Markdown build pipeline.
type CompilerConfig struct {
	// SourceRoot and DestRoot are the source and artifact subtrees inside
	// the content store, e.g. "md/" and "html/".
	SourceRoot string `json:"source_root"`
	DestRoot   string `json:"dest_root"`
	// SourceExt and DestExt rewrite file extensions during path mapping.
	SourceExt string `json:"source_ext"`
	DestExt   string `json:"dest_ext"`
	// Workers bounds batch compile parallelism. Zero compiles sequentially.
	Workers int `json:"workers"`
	// Extensions names goldmark extensions; empty enables the defaults.
	Extensions []string `json:"extensions"`
	HardWraps  bool     `json:"hard_wraps"`
	SafeMode   bool     `json:"safe_mode"`
}

// TemplatesConfig locates the file-backed layout templates.
type TemplatesConfig struct {
	Dir string `json:"dir"`
}

// LoggingConfig selects the go-logger backend. When Enabled is false the
// module runs with no-op loggers, which keeps tests quiet.
type LoggingConfig struct {
	Enabled   bool   `json:"enabled"`
	Level     string `json:"level"`
	Format    string `json:"format"`
	AddSource bool   `json:"add_source"`
}

// DefaultConfig returns the conventional md/ -> html/ layout rooted at the
// current directory.
func DefaultConfig() Config {
	return Config{
		ContentRoot: ".",
		Compiler: CompilerConfig{
			SourceRoot: "md/",
			DestRoot:   "html/",
			SourceExt:  ".md",
			DestExt:    ".html",
		},
		Templates: TemplatesConfig{Dir: "templates"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration before any component is constructed.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ContentRoot, validation.Required),
		validation.Field(&c.Compiler),
		validation.Field(&c.Templates),
		validation.Field(&c.Logging),
	)
}

// Validate implements validation.Validatable.
func (c CompilerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SourceRoot, validation.Required),
		validation.Field(&c.DestRoot, validation.Required),
		validation.Field(&c.SourceExt, validation.Required, validation.By(requireDotExt)),
		validation.Field(&c.DestExt, validation.Required, validation.By(requireDotExt)),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// Validate implements validation.Validatable.
func (c TemplatesConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Format, validation.In("", "json", "console", "pretty")),
	)
}

func requireDotExt(value any) error {
	ext, _ := value.(string)
	if ext == "" {
		return nil
	}
	if !strings.HasPrefix(ext, ".") {
		return validation.NewError("validation_extension", "must start with a dot")
	}
	if strings.ContainsAny(ext[1:], "./\\") {
		return validation.NewError("validation_extension", "must be a bare file extension")
	}
	return nil
}
