package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/datastore"
	"github.com/tphakala/notes-go/internal/errors"
)

// Field names as they appear in request and response bodies.
const (
	FieldTitle   = "title"
	FieldContent = "content"
)

// ErrMalformedBody is returned when a request body is not valid JSON.
var ErrMalformedBody = errors.NewStd("malformed JSON body")

// Limits bounds field lengths, counted in runes.
type Limits struct {
	MaxTitleLength   int
	MaxContentLength int
}

// LimitsFromSettings reads the configured note limits.
func LimitsFromSettings(s *conf.NotesSettings) Limits {
	return Limits{
		MaxTitleLength:   s.MaxTitleLength,
		MaxContentLength: s.MaxContentLength,
	}
}

// CreateInput is the body of a create request. Both fields are required and non-empty.
type CreateInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FullUpdateInput replaces both fields. Both must be present; empty strings are allowed.
type FullUpdateInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PartialUpdateInput overwrites only the fields that are set.
type PartialUpdateInput struct {
	Title   Optional[string] `json:"title"`
	Content Optional[string] `json:"content"`
}

// Output is the response shape of a note.
type Output struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Acknowledgement is returned by a successful delete.
type Acknowledgement struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// NewOutput converts a stored note into its response shape.
func NewOutput(n datastore.Note) Output {
	return Output{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}

// NewOutputs converts a list of stored notes, never returning nil.
func NewOutputs(notes []datastore.Note) []Output {
	out := make([]Output, 0, len(notes))
	for _, n := range notes {
		out = append(out, NewOutput(n))
	}
	return out
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid note: " + strings.Join(parts, "; ")
}

// add keeps the first message recorded for a field.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// err returns nil when no field failed, otherwise a validation-category error.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return errors.New(e).
		Component("notes").
		Category(errors.CategoryValidation).
		Priority(errors.PriorityLow).
		Build()
}

func checkLength(ve *ValidationError, field, value string, limit int) {
	if limit > 0 && utf8.RuneCountInString(value) > limit {
		ve.add(field, fmt.Sprintf("must be at most %d characters", limit))
	}
}

// Validate checks the create rules.
func (in CreateInput) Validate(l Limits) error {
	ve := &ValidationError{}
	if in.Title == "" {
		ve.add(FieldTitle, "must not be empty")
	}
	if in.Content == "" {
		ve.add(FieldContent, "must not be empty")
	}
	checkLength(ve, FieldTitle, in.Title, l.MaxTitleLength)
	checkLength(ve, FieldContent, in.Content, l.MaxContentLength)
	return ve.err()
}

// Validate checks length limits; presence is enforced when decoding.
func (in FullUpdateInput) Validate(l Limits) error {
	ve := &ValidationError{}
	checkLength(ve, FieldTitle, in.Title, l.MaxTitleLength)
	checkLength(ve, FieldContent, in.Content, l.MaxContentLength)
	return ve.err()
}

// Validate checks length limits of the fields that are set.
func (in PartialUpdateInput) Validate(l Limits) error {
	ve := &ValidationError{}
	if in.Title.Set {
		checkLength(ve, FieldTitle, in.Title.Value, l.MaxTitleLength)
	}
	if in.Content.Set {
		checkLength(ve, FieldContent, in.Content.Value, l.MaxContentLength)
	}
	return ve.err()
}

// DecodeCreateInput parses and validates a create body.
func DecodeCreateInput(body []byte, l Limits) (CreateInput, error) {
	fields, ve, err := decodeObject(body)
	if err != nil {
		return CreateInput{}, err
	}
	in := CreateInput{
		Title:   requiredString(fields, FieldTitle, ve),
		Content: requiredString(fields, FieldContent, ve),
	}
	if err := ve.err(); err != nil {
		return CreateInput{}, err
	}
	return in, in.Validate(l)
}

// DecodeFullUpdateInput parses and validates a full update body.
func DecodeFullUpdateInput(body []byte, l Limits) (FullUpdateInput, error) {
	fields, ve, err := decodeObject(body)
	if err != nil {
		return FullUpdateInput{}, err
	}
	in := FullUpdateInput{
		Title:   requiredString(fields, FieldTitle, ve),
		Content: requiredString(fields, FieldContent, ve),
	}
	if err := ve.err(); err != nil {
		return FullUpdateInput{}, err
	}
	return in, in.Validate(l)
}

// DecodePartialUpdateInput parses and validates a partial update body. An
// empty body is an update that changes nothing.
func DecodePartialUpdateInput(body []byte, l Limits) (PartialUpdateInput, error) {
	fields, ve, err := decodeObject(body)
	if err != nil {
		return PartialUpdateInput{}, err
	}
	in := PartialUpdateInput{
		Title:   optionalString(fields, FieldTitle, ve),
		Content: optionalString(fields, FieldContent, ve),
	}
	if err := ve.err(); err != nil {
		return PartialUpdateInput{}, err
	}
	return in, in.Validate(l)
}

// decodeObject splits a JSON object into raw fields. Unknown keys are ignored.
func decodeObject(body []byte) (map[string]json.RawMessage, *ValidationError, error) {
	ve := &ValidationError{}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return map[string]json.RawMessage{}, ve, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			ve.add("body", "must be a JSON object")
			return nil, nil, ve.err()
		}
		return nil, nil, errors.New(fmt.Errorf("%w: %w", ErrMalformedBody, err)).
			Component("notes").
			Category(errors.CategoryValidation).
			Priority(errors.PriorityLow).
			Build()
	}
	return fields, ve, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func requiredString(fields map[string]json.RawMessage, name string, ve *ValidationError) string {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		ve.add(name, "field required")
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		ve.add(name, "must be a string")
		return ""
	}
	return s
}

func optionalString(fields map[string]json.RawMessage, name string, ve *ValidationError) Optional[string] {
	raw, ok := fields[name]
	if !ok {
		return Optional[string]{}
	}
	var opt Optional[string]
	if err := json.Unmarshal(raw, &opt); err != nil {
		ve.add(name, "must be a string")
		return Optional[string]{}
	}
	return opt
}
