package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-sql-notes/internal/middleware"
	"github.com/safar/go-sql-notes/internal/orders"
)

// CreateOrder takes a bare JSON array of {productId, quantity}.
func CreateOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lines []orders.LineInput
		if err := c.ShouldBindJSON(&lines); err != nil {
			respondBadBody(c, err)
			return
		}

		order, err := svc.CreateOrder(c.Request.Context(), middleware.UserID(c), lines)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

func ListOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.GetAllOrders(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func GetOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		order, err := svc.GetOrderByID(c.Request.Context(), id, middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if order == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func AdminUpdateOrderStatus(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadBody(c, err)
			return
		}

		change, err := svc.AdminUpdateOrderStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "order status updated",
			"orderId":   change.OrderID,
			"newStatus": change.NewStatus,
		})
	}
}

func AdminListOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c)
		result, err := svc.AdminListOrders(c.Request.Context(), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func AdminGetOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		order, err := svc.AdminGetOrderByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if order == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func AdminDeleteOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.AdminDeleteOrder(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
