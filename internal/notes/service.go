// Package notes holds the note request shapes and the operations that apply
// them to a datastore session.
package notes

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/tphakala/notes-go/internal/datastore"
	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// NotFoundMessage is the fixed message for a missing note.
const NotFoundMessage = "Note not found"

// DeletedMessage is the acknowledgement message of a successful delete.
const DeletedMessage = "DELETED"

// ErrNotFound is the single error kind for a missing note, returned by
// Get, Update, Patch and Delete alike.
var ErrNotFound = errors.NewStd(NotFoundMessage)

// Service implements the note operations. It holds no per-request state and
// is safe for concurrent use; each call works on the session it is given.
type Service struct {
	limits  Limits
	logger  logger.Logger
	metrics *metrics.NotesMetrics
}

// NewService creates a note service. log and m may be nil.
func NewService(limits Limits, log logger.Logger, m *metrics.NotesMetrics) *Service {
	if log == nil {
		log = logger.Global().Module("notes")
	}
	return &Service{
		limits:  limits,
		logger:  log,
		metrics: m,
	}
}

// Limits returns the configured field limits.
func (svc *Service) Limits() Limits {
	return svc.limits
}

// Create stores a new note and returns it with its assigned id.
func (svc *Service) Create(ctx context.Context, s datastore.Session, in CreateInput) (note datastore.Note, err error) {
	defer svc.observe(ctx, metrics.OpNoteCreate, time.Now(), &err)

	if err = in.Validate(svc.limits); err != nil {
		return datastore.Note{}, err
	}

	note, err = s.InsertNote(in.Title, in.Content)
	if err != nil {
		return datastore.Note{}, err
	}
	svc.recordPayload(note)
	return note, nil
}

// List returns every note in insertion order. No notes is an empty slice, not an error.
func (svc *Service) List(ctx context.Context, s datastore.Session) (all []datastore.Note, err error) {
	defer svc.observe(ctx, metrics.OpNoteList, time.Now(), &err)

	all, err = s.ListNotes()
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []datastore.Note{}
	}
	return all, nil
}

// Get returns the note with the given id.
func (svc *Service) Get(ctx context.Context, s datastore.Session, id uint) (note datastore.Note, err error) {
	defer svc.observe(ctx, metrics.OpNoteGet, time.Now(), &err)

	return svc.fetch(s, id, metrics.OpNoteGet)
}

// Update replaces both fields of an existing note.
func (svc *Service) Update(ctx context.Context, s datastore.Session, id uint, in FullUpdateInput) (note datastore.Note, err error) {
	defer svc.observe(ctx, metrics.OpNoteUpdate, time.Now(), &err)

	if err = in.Validate(svc.limits); err != nil {
		return datastore.Note{}, err
	}
	if _, err = svc.fetch(s, id, metrics.OpNoteUpdate); err != nil {
		return datastore.Note{}, err
	}

	note, err = s.UpdateNote(id, in.Title, in.Content)
	if err != nil {
		return datastore.Note{}, svc.translateNotFound(err, id, metrics.OpNoteUpdate)
	}
	svc.recordPayload(note)
	return note, nil
}

// Patch overwrites only the fields set in the input. With no fields set the
// note is returned unchanged and nothing is written.
func (svc *Service) Patch(ctx context.Context, s datastore.Session, id uint, in PartialUpdateInput) (note datastore.Note, err error) {
	defer svc.observe(ctx, metrics.OpNotePatch, time.Now(), &err)

	if err = in.Validate(svc.limits); err != nil {
		return datastore.Note{}, err
	}
	current, err := svc.fetch(s, id, metrics.OpNotePatch)
	if err != nil {
		return datastore.Note{}, err
	}
	if !in.Title.Set && !in.Content.Set {
		return current, nil
	}

	note, err = s.UpdateNote(id, in.Title.Or(current.Title), in.Content.Or(current.Content))
	if err != nil {
		return datastore.Note{}, svc.translateNotFound(err, id, metrics.OpNotePatch)
	}
	svc.recordPayload(note)
	return note, nil
}

// Delete removes a note permanently. Deleting it again reports not found.
func (svc *Service) Delete(ctx context.Context, s datastore.Session, id uint) (ack Acknowledgement, err error) {
	defer svc.observe(ctx, metrics.OpNoteDelete, time.Now(), &err)

	if _, err = svc.fetch(s, id, metrics.OpNoteDelete); err != nil {
		return Acknowledgement{}, err
	}
	if err = s.DeleteNote(id); err != nil {
		return Acknowledgement{}, svc.translateNotFound(err, id, metrics.OpNoteDelete)
	}
	return Acknowledgement{Message: DeletedMessage, ID: id}, nil
}

// fetch loads a note, turning a missing row into ErrNotFound before any mutation.
func (svc *Service) fetch(s datastore.Session, id uint, operation string) (datastore.Note, error) {
	note, err := s.GetNote(id)
	if err != nil {
		return datastore.Note{}, svc.translateNotFound(err, id, operation)
	}
	return note, nil
}

func (svc *Service) translateNotFound(err error, id uint, operation string) error {
	if !errors.Is(err, datastore.ErrNoteNotFound) {
		return err
	}
	return errors.New(ErrNotFound).
		Component("notes").
		Category(errors.CategoryNotFound).
		Priority(errors.PriorityLow).
		Context("operation", operation).
		Context("note_id", id).
		Build()
}

func (svc *Service) recordPayload(n datastore.Note) {
	if svc.metrics == nil {
		return
	}
	svc.metrics.RecordPayload(FieldTitle, utf8.RuneCountInString(n.Title))
	svc.metrics.RecordPayload(FieldContent, utf8.RuneCountInString(n.Content))
}

func (svc *Service) observe(ctx context.Context, operation string, start time.Time, errp *error) {
	elapsed := time.Since(start)
	err := *errp

	status := metrics.StatusSuccess
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		status = metrics.StatusNotFound
	case errors.IsCategory(err, errors.CategoryValidation):
		status = metrics.StatusInvalid
	default:
		status = metrics.StatusError
	}

	if svc.metrics != nil {
		svc.metrics.RecordOperation(operation, status, elapsed.Seconds())
	}

	log := svc.logger.WithContext(ctx)
	if status == metrics.StatusError {
		log.Warn("note operation failed",
			logger.String("operation", operation),
			logger.Duration("duration", elapsed),
			logger.Error(err))
		return
	}
	log.Debug("note operation",
		logger.String("operation", operation),
		logger.String("status", status),
		logger.Duration("duration", elapsed))
}
