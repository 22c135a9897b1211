package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-sql-notes/internal/middleware"
	"github.com/safar/go-sql-notes/internal/notes"
)

func CreateNote(svc NoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in notes.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadBody(c, err)
			return
		}

		note, err := svc.Create(c.Request.Context(), middleware.UserID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, note)
	}
}

// ListNotes returns every note, or a cursor page when ?cursor= or ?limit= is given.
func ListNotes(svc NoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cursor, hasCursor := c.GetQuery("cursor")
		limitRaw, hasLimit := c.GetQuery("limit")

		if hasCursor || hasLimit {
			limit, _ := strconv.Atoi(limitRaw)
			page, err := svc.ListPage(c.Request.Context(), middleware.UserID(c), cursor, limit)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, page)
			return
		}

		result, err := svc.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func GetNote(svc NoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		note, err := svc.Get(c.Request.Context(), id, middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, note)
	}
}

func UpdateNote(svc NoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in notes.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadBody(c, err)
			return
		}

		note, err := svc.Update(c.Request.Context(), id, middleware.UserID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, note)
	}
}

func DeleteNote(svc NoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func AdminListNotes(svc NoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c)
		result, err := svc.AdminList(c.Request.Context(), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func AdminDeleteNote(svc NoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.AdminDelete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
