package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{name: "nil context", ctx: nil, want: UnknownValue},
		{name: "empty version", ctx: NewContext("", "2024-01-01", "abc123"), want: UnknownValue},
		{name: "valid version", ctx: NewContext("1.0.0", "2024-01-01", "abc123"), want: "1.0.0"},
		{name: "pre-release tag", ctx: NewContext("1.0.0-beta.1", "", ""), want: "1.0.0-beta.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ctx.Version())
		})
	}
}

func TestContext_Fields(t *testing.T) {
	t.Parallel()

	ctx := NewContext("1.2.3", "2024-01-01", "")
	assert.Equal(t, "2024-01-01", ctx.BuildDate())
	assert.Equal(t, UnknownValue, ctx.Commit())

	var nilCtx *Context
	assert.Equal(t, UnknownValue, nilCtx.BuildDate())
	assert.Equal(t, UnknownValue, nilCtx.Commit())
}

func TestContext_String(t *testing.T) {
	t.Parallel()

	s := NewContext("1.2.3", "2024-01-01", "abc123").String()
	assert.Contains(t, s, "notes-go 1.2.3")
	assert.Contains(t, s, "commit abc123")
	assert.Contains(t, s, "built 2024-01-01")
}

func TestCurrent_NeverEmpty(t *testing.T) {
	t.Parallel()

	ctx := Current()
	assert.NotEmpty(t, ctx.Version())
	assert.NotEmpty(t, ctx.Commit())
}
