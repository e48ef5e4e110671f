// Package buildinfo contains build-time metadata kept separate from user configuration
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// UnknownValue is reported for metadata that was not injected at build time.
const UnknownValue = "unknown"

// These are set with -ldflags "-X github.com/tphakala/notes-go/internal/buildinfo.version=..."
var (
	version   string
	buildDate string
	commit    string
)

// Context contains build-time metadata that is not user-configurable.
type Context struct {
	version   string
	buildDate string
	commit    string
}

// NewContext creates a Context from explicit values.
func NewContext(version, buildDate, commit string) *Context {
	return &Context{version: version, buildDate: buildDate, commit: commit}
}

// Current returns the metadata linked into this binary. When no version was
// injected, the module version and VCS revision from debug.ReadBuildInfo are used.
func Current() *Context {
	ctx := NewContext(version, buildDate, commit)
	if ctx.version != "" && ctx.commit != "" {
		return ctx
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ctx
	}
	if ctx.version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		ctx.version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if ctx.commit == "" {
				ctx.commit = s.Value
			}
		case "vcs.time":
			if ctx.buildDate == "" {
				ctx.buildDate = s.Value
			}
		}
	}
	return ctx
}

func orUnknown(c *Context, v func(*Context) string) string {
	if c == nil {
		return UnknownValue
	}
	if s := v(c); s != "" {
		return s
	}
	return UnknownValue
}

// Version returns the build version string
func (c *Context) Version() string {
	return orUnknown(c, func(c *Context) string { return c.version })
}

// BuildDate returns the build date string
func (c *Context) BuildDate() string {
	return orUnknown(c, func(c *Context) string { return c.buildDate })
}

// Commit returns the VCS revision
func (c *Context) Commit() string {
	return orUnknown(c, func(c *Context) string { return c.commit })
}

// String formats the metadata for `notes-go version`.
func (c *Context) String() string {
	return fmt.Sprintf("notes-go %s (commit %s, built %s, %s %s/%s)",
		c.Version(), c.Commit(), c.BuildDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
