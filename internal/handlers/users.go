package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-sql-notes/internal/middleware"
	"github.com/safar/go-sql-notes/internal/users"
)

func Register(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in users.Credentials
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadBody(c, err)
			return
		}

		user, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func Login(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in users.Credentials
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadBody(c, err)
			return
		}

		session, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func Me(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Me(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DeleteAccount(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.Claims(c)
		if err := svc.DeleteAccount(c.Request.Context(), middleware.UserID(c), claims.Role); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func AdminListUsers(svc UserService) gin.HandlerFunc {
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

func AdminDeleteUser(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.AdminDelete(c.Request.Context(), middleware.UserID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
