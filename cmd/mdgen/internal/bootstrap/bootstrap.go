package bootstrap

import (
	"fmt"
	"strings"

	mdgen "github.com/benjamin-wilkins/md-generator"
	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// Options captures configuration shared by the mdgen CLI commands.
type Options struct {
	ContentRoot string
	SourceRoot  string
	DestRoot    string
	TemplateDir string
	Workers     int
	Extensions  []string
	SafeMode    bool
	LogLevel    string
	LogFormat   string
	Quiet       bool

	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the generator module together with its CLI logger.
type Module struct {
	Module *mdgen.Module
	Logger interfaces.Logger
}

// BuildModule constructs a generator module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := mdgen.DefaultConfig()

	if trimmed := strings.TrimSpace(opts.ContentRoot); trimmed != "" {
		cfg.ContentRoot = trimmed
	}
	if trimmed := strings.TrimSpace(opts.SourceRoot); trimmed != "" {
		cfg.Compiler.SourceRoot = trimmed
	}
	if trimmed := strings.TrimSpace(opts.DestRoot); trimmed != "" {
		cfg.Compiler.DestRoot = trimmed
	}
	if trimmed := strings.TrimSpace(opts.TemplateDir); trimmed != "" {
		cfg.Templates.Dir = trimmed
	}
	if opts.Workers > 0 {
		cfg.Compiler.Workers = opts.Workers
	}
	if len(opts.Extensions) > 0 {
		cfg.Compiler.Extensions = cloneStrings(opts.Extensions)
	}
	cfg.Compiler.SafeMode = opts.SafeMode

	cfg.Logging.Enabled = !opts.Quiet
	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Format = trimmed
	}

	moduleOpts := []mdgen.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, mdgen.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := mdgen.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise generator module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: module.Logger("mdgen.cli"),
	}, nil
}

// SplitList parses a comma separated flag value into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParsePairs parses repeated "key=value" flag values into a map. Duplicate
// keys keep the last value.
func ParsePairs(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", value)
		}
		out[key] = val
	}
	return out, nil
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
