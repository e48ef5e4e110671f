package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/notes-go/internal/datastore"
	"github.com/tphakala/notes-go/internal/notes"
)

// initNoteRoutes registers the note CRUD routes.
func (c *Controller) initNoteRoutes() {
	g := c.Group.Group("/notes")

	g.POST("", c.CreateNote)
	g.GET("", c.ListNotes)
	g.GET("/:id", c.GetNote)
	g.PUT("/:id", c.UpdateNote)
	g.PATCH("/:id", c.PatchNote)
	g.DELETE("/:id", c.DeleteNote)
}

// CreateNote handles POST /api/v1/notes
func (c *Controller) CreateNote(ctx echo.Context) error {
	body, err := readBody(ctx)
	if err != nil {
		return err
	}
	in, err := notes.DecodeCreateInput(body, c.Notes.Limits())
	if err != nil {
		return err
	}

	var created datastore.Note
	err = c.Store.WithSession(ctx.Request().Context(), func(s datastore.Session) error {
		created, err = c.Notes.Create(ctx.Request().Context(), s, in)
		return err
	})
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderLocation, notePath(created.ID))
	return ctx.JSON(http.StatusCreated, notes.NewOutput(created))
}

// ListNotes handles GET /api/v1/notes
func (c *Controller) ListNotes(ctx echo.Context) error {
	var all []datastore.Note
	err := c.Store.WithSession(ctx.Request().Context(), func(s datastore.Session) error {
		var err error
		all, err = c.Notes.List(ctx.Request().Context(), s)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notes.NewOutputs(all))
}

// GetNote handles GET /api/v1/notes/:id
func (c *Controller) GetNote(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var note datastore.Note
	err = c.Store.WithSession(ctx.Request().Context(), func(s datastore.Session) error {
		note, err = c.Notes.Get(ctx.Request().Context(), s, id)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notes.NewOutput(note))
}

// UpdateNote handles PUT /api/v1/notes/:id
func (c *Controller) UpdateNote(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	body, err := readBody(ctx)
	if err != nil {
		return err
	}
	in, err := notes.DecodeFullUpdateInput(body, c.Notes.Limits())
	if err != nil {
		return err
	}

	var note datastore.Note
	err = c.Store.WithSession(ctx.Request().Context(), func(s datastore.Session) error {
		note, err = c.Notes.Update(ctx.Request().Context(), s, id, in)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notes.NewOutput(note))
}

// PatchNote handles PATCH /api/v1/notes/:id
func (c *Controller) PatchNote(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	body, err := readBody(ctx)
	if err != nil {
		return err
	}
	in, err := notes.DecodePartialUpdateInput(body, c.Notes.Limits())
	if err != nil {
		return err
	}

	var note datastore.Note
	err = c.Store.WithSession(ctx.Request().Context(), func(s datastore.Session) error {
		note, err = c.Notes.Patch(ctx.Request().Context(), s, id, in)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notes.NewOutput(note))
}

// DeleteNote handles DELETE /api/v1/notes/:id
func (c *Controller) DeleteNote(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var ack notes.Acknowledgement
	err = c.Store.WithSession(ctx.Request().Context(), func(s datastore.Session) error {
		ack, err = c.Notes.Delete(ctx.Request().Context(), s, id)
		return err
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ack)
}

// notePath is the canonical location of a note.
func notePath(id uint) string {
	return BasePath + "/notes/" + strconv.FormatUint(uint64(id), 10)
}

// parseID reads the :id path parameter. Zero, negative and non-numeric ids
// are validation errors.
func parseID(ctx echo.Context) (uint, error) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, invalidID(raw)
	}
	return uint(id), nil
}

// readBody reads the whole request body. The body limit middleware bounds it
// and its 413 error is returned unchanged.
func readBody(ctx echo.Context) ([]byte, error) {
	if ctx.Request().Body == nil {
		return nil, nil
	}
	return io.ReadAll(ctx.Request().Body)
}
