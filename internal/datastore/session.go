package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/observability/metrics"
)

// session implements Session on top of an open GORM transaction.
type session struct {
	tx *gorm.DB
	ds *DataStore
}

// InsertNote stores a new note; the database assigns the id.
func (s *session) InsertNote(title, content string) (note Note, err error) {
	defer func(start time.Time) { s.ds.recordOperation(metrics.OpDbInsert, start, err) }(time.Now())

	note = Note{Title: title, Content: content}
	if err = s.tx.Create(&note).Error; err != nil {
		return Note{}, wrapQueryError(err, metrics.OpDbInsert, "table", note.TableName())
	}
	return note, nil
}

// ListNotes returns every note in ascending id order. The result is never nil.
func (s *session) ListNotes() ([]Note, error) {
	start := time.Now()

	notes := make([]Note, 0)
	err := s.tx.Order("id ASC").Find(&notes).Error
	s.ds.recordOperation(metrics.OpDbQuery, start, err)
	if err != nil {
		return nil, wrapQueryError(err, metrics.OpDbQuery, "query", "list_notes")
	}
	return notes, nil
}

// GetNote fetches a note by primary key, returning ErrNoteNotFound when absent.
func (s *session) GetNote(id uint) (Note, error) {
	start := time.Now()

	var note Note
	err := s.tx.First(&note, id).Error
	s.ds.recordOperation(metrics.OpDbQuery, start, err)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Note{}, notFoundError(metrics.OpDbQuery, id)
	case err != nil:
		return Note{}, wrapQueryError(err, metrics.OpDbQuery, "note_id", id)
	}
	return note, nil
}

// UpdateNote overwrites title and content of an existing note and returns
// the stored row. Empty strings are written as given.
func (s *session) UpdateNote(id uint, title, content string) (Note, error) {
	start := time.Now()

	result := s.tx.Model(&Note{ID: id}).Updates(map[string]any{
		"title":   title,
		"content": content,
	})
	if result.Error != nil {
		s.ds.recordOperation(metrics.OpDbUpdate, start, result.Error)
		return Note{}, wrapQueryError(result.Error, metrics.OpDbUpdate, "note_id", id)
	}

	var note Note
	err := s.tx.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = notFoundError(metrics.OpDbUpdate, id)
	}
	s.ds.recordOperation(metrics.OpDbUpdate, start, err)
	switch {
	case isNotFound(err):
		return Note{}, err
	case err != nil:
		return Note{}, wrapQueryError(err, metrics.OpDbUpdate, "note_id", id)
	}
	return note, nil
}

// DeleteNote removes a note permanently, returning ErrNoteNotFound when no row matched.
func (s *session) DeleteNote(id uint) (err error) {
	defer func(start time.Time) { s.ds.recordOperation(metrics.OpDbDelete, start, err) }(time.Now())

	result := s.tx.Delete(&Note{}, id)
	if result.Error != nil {
		return wrapQueryError(result.Error, metrics.OpDbDelete, "note_id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(metrics.OpDbDelete, id)
	}
	return nil
}
