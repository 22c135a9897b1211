package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-sql-notes/internal/auth"
	"github.com/safar/go-sql-notes/internal/metrics"
	"github.com/safar/go-sql-notes/internal/middleware"
)

type Deps struct {
	Orders   OrderService
	Notes    NoteService
	Products ProductService
	Users    UserService
	Tokens   *auth.Tokens
	Metrics  *metrics.ServerMetrics
	// Ping reports database reachability for /health. Optional.
	Ping func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.GET("/health", health(d.Ping))

	authed := middleware.Auth(d.Tokens)

	api := r.Group("/api")
	{
		a := api.Group("/auth")
		a.POST("/register", Register(d.Users))
		a.POST("/login", Login(d.Users))
		a.GET("/me", authed, Me(d.Users))
		a.DELETE("/account", authed, DeleteAccount(d.Users))

		api.GET("/products", ListActiveProducts(d.Products))

		n := api.Group("/notes", authed)
		n.GET("", ListNotes(d.Notes))
		n.POST("", CreateNote(d.Notes))
		n.GET("/:id", GetNote(d.Notes))
		n.PUT("/:id", UpdateNote(d.Notes))
		n.DELETE("/:id", DeleteNote(d.Notes))

		o := api.Group("/orders", authed)
		o.POST("", CreateOrder(d.Orders))
		o.GET("", ListOrders(d.Orders))
		o.GET("/:id", GetOrder(d.Orders))

		admin := api.Group("/admin", authed, middleware.RequireAdmin())
		admin.GET("/products", AdminListProducts(d.Products))
		admin.POST("/products", AdminCreateProduct(d.Products))
		admin.PUT("/products/:id", AdminUpdateProduct(d.Products))
		admin.DELETE("/products/:id", AdminDeleteProduct(d.Products))

		admin.GET("/users", AdminListUsers(d.Users))
		admin.DELETE("/users/:id", AdminDeleteUser(d.Users))

		admin.GET("/notes", AdminListNotes(d.Notes))
		admin.DELETE("/notes/:id", AdminDeleteNote(d.Notes))

		admin.GET("/orders", AdminListOrders(d.Orders))
		admin.GET("/orders/:id", AdminGetOrder(d.Orders))
		admin.DELETE("/orders/:id", AdminDeleteOrder(d.Orders))
		admin.PUT("/orders/:id/status", AdminUpdateOrderStatus(d.Orders))
	}

	return r
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
