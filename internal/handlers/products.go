package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-sql-notes/internal/catalog"
	"github.com/safar/go-sql-notes/internal/middleware"
)

func ListActiveProducts(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ListActive(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func AdminListProducts(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c)
		result, err := svc.List(c.Request.Context(), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func AdminCreateProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadBody(c, err)
			return
		}

		product, err := svc.Create(c.Request.Context(), middleware.UserID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var in catalog.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadBody(c, err)
			return
		}

		product, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func AdminDeleteProduct(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
