package config

import (
	"fmt"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
)

// Supported rendering engines.
const (
	EngineBuiltin  = "builtin"
	EngineGoldmark = "goldmark"
)

// Validate checks field values after defaults have been applied.
func (c *Config) Validate() error {
	switch c.Build.Engine {
	case EngineBuiltin, EngineGoldmark:
	default:
		return serrors.ValidationFailed("build.engine", fmt.Sprintf("unsupported engine %q (want %s or %s)", c.Build.Engine, EngineBuiltin, EngineGoldmark))
	}
	if c.Build.Workers < 0 {
		return serrors.ValidationFailed("build.workers", "must not be negative")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return serrors.ValidationFailed("serve.port", fmt.Sprintf("out of range: %d", c.Serve.Port))
	}
	if c.Serve.RebuildInterval < 0 {
		return serrors.ValidationFailed("serve.rebuild_interval", "must not be negative")
	}
	for field, dir := range map[string]string{"content_dir": c.ContentDir, "public_dir": c.PublicDir} {
		if strings.TrimSpace(dir) == "" {
			return serrors.ValidationFailed(field, "must not be empty")
		}
	}
	if samePath(c.ContentDir, c.PublicDir) {
		return serrors.ValidationFailed("public_dir", "must differ from content_dir")
	}
	if c.StaticDir != "" && samePath(c.StaticDir, c.PublicDir) {
		return serrors.ValidationFailed("public_dir", "must differ from static_dir")
	}
	if c.Build.CleanOutput() {
		return c.validateCleanTarget()
	}
	return nil
}

// validateCleanTarget rejects a public_dir that would take sources with it
// when a clean build removes it.
func (c *Config) validateCleanTarget() error {
	sources := [][2]string{
		{"content_dir", c.ContentDir},
		{"static_dir", c.StaticDir},
	}
	if c.Template != "" {
		sources = append(sources, [2]string{"template", filepath.Dir(c.Template)})
	}
	for _, src := range sources {
		field, dir := src[0], src[1]
		if dir != "" && containsPath(c.PublicDir, dir) {
			return serrors.ValidationFailed("public_dir",
				fmt.Sprintf("must not contain %s %q when build.clean is on", field, dir))
		}
	}
	return nil
}
