package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReporter struct {
	enabled  bool
	reported []*EnhancedError
}

func (r *countingReporter) ReportError(ee *EnhancedError) { r.reported = append(r.reported, ee) }
func (r *countingReporter) IsEnabled() bool               { return r.enabled }

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestBuilderSetsFields(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := Newf("insert failed: %d", 7).
		Component("datastore").
		Category(CategoryDatabase).
		Priority(PriorityHigh).
		Context("operation", "insert_note").
		Build()

	assert.Equal(t, "insert failed: 7", ee.GetMessage())
	assert.Equal(t, "datastore", ee.GetComponent())
	assert.Equal(t, CategoryDatabase, ee.Category)
	assert.Equal(t, PriorityHigh, ee.Priority)
	assert.Equal(t, "insert_note", ee.GetContext()["operation"])
}

func TestPriorityFallsBackToMedium(t *testing.T) {
	ee := New(NewStd("x")).Priority("urgent").Build()
	assert.Equal(t, PriorityMedium, ee.Priority)

	ee = New(NewStd("x")).Priority("").Build()
	assert.Empty(t, ee.Priority)
}

func TestGetContextReturnsCopy(t *testing.T) {
	ee := New(NewStd("x")).Context("id", 1).Build()

	ctx := ee.GetContext()
	ctx["id"] = 2

	assert.Equal(t, 1, ee.GetContext()["id"])
}

func TestIsAndUnwrap(t *testing.T) {
	sentinel := NewStd("note not found")
	ee := New(sentinel).Category(CategoryNotFound).Build()
	wrapped := fmt.Errorf("get note: %w", ee)

	assert.True(t, Is(wrapped, sentinel))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsCategory(wrapped, CategoryDatabase))
	assert.Same(t, sentinel, ee.Unwrap())

	other := New(NewStd("different")).Category(CategoryNotFound).Build()
	assert.True(t, Is(ee, other), "enhanced errors match by category")
}

func TestCategoryInheritedFromWrappedError(t *testing.T) {
	inner := New(NewStd("bad title")).Category(CategoryValidation).Build()
	outer := New(fmt.Errorf("create: %w", inner)).Build()

	assert.Equal(t, CategoryValidation, outer.Category)
}

func TestTelemetryReporterReceivesErrors(t *testing.T) {
	reporter := &countingReporter{enabled: true}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(NewStd("disk I/O error")).Category(CategoryDatabase).Build()

	require.Len(t, reporter.reported, 1)
	assert.Equal(t, ComponentUnknown, ee.GetComponent(), "no registered package on the stack")
	assert.Same(t, ee, reporter.reported[0])
	assert.Same(t, reporter, GetTelemetryReporter())
}

func TestDisabledReporterIsSkipped(t *testing.T) {
	reporter := &countingReporter{enabled: false}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	_ = New(NewStd("boom")).Build()

	assert.Empty(t, reporter.reported)
}

func TestShouldReport(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     bool
	}{
		{CategoryNotFound, false},
		{CategoryValidation, false},
		{CategoryCancellation, false},
		{CategoryDatabase, true},
		{CategoryConfiguration, true},
		{CategoryGeneric, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, shouldReport(tt.category))
		})
	}
}

func TestScrubMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "mysql url credentials",
			in:   "dial mysql://notes:s3cret@db:3306/notes failed",
			want: "dial mysql://[REDACTED]@db:3306/notes failed",
		},
		{
			name: "query string",
			in:   "GET https://example.com/hook?token=abc",
			want: "GET https://example.com/hook?[REDACTED]",
		},
		{
			name: "password pair",
			in:   "dsn user=notes password=hunter2",
			want: "dsn user=notes password=[REDACTED]",
		},
		{
			name: "nothing to scrub",
			in:   "UNIQUE constraint failed",
			want: "UNIQUE constraint failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scrubMessage(tt.in))
		})
	}
}

func TestGenerateErrorTitle(t *testing.T) {
	title := generateErrorTitle("datastore", CategoryDatabase, map[string]any{"operation": "insert_note"})
	assert.Equal(t, "Datastore Database Insert Note", title)

	title = generateErrorTitle(ComponentUnknown, CategorySystem, nil)
	assert.Equal(t, "System Resource", title)
}
