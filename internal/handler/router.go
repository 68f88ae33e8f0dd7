// internal/handler/router.go
package handler

import (
	"net/http"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/balance"
	"expense-tracker/internal/middleware"
	"expense-tracker/internal/service"
	"expense-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

// Store is the full persistence surface the HTTP layer needs.
type Store interface {
	storage.UserStorage
	storage.CategoryStorage
	storage.ExpenseStorage
}

// NewRouter wires every endpoint. Registration and login are open,
// everything else sits behind the bearer-token middleware.
func NewRouter(store Store, tokens *auth.TokenService, hasher *auth.PasswordHasher) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userService := service.NewUserService(store, tokens, hasher)
	engine := balance.NewEngine(store)

	authHandler := NewAuthHandler(userService, store)
	categoryHandler := NewCategoryHandler(store)
	expenseHandler := NewExpenseHandler(store)
	balanceHandler := NewBalanceHandler(engine, store)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	authed := v1.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/profile", authHandler.Profile)
		authed.PUT("/auth/profile", authHandler.UpdateProfile)

		authed.GET("/categories", categoryHandler.List)
		authed.POST("/categories", categoryHandler.Create)
		authed.GET("/categories/types", categoryHandler.Types)
		authed.GET("/categories/:id", categoryHandler.Get)
		authed.PUT("/categories/:id", categoryHandler.Update)
		authed.DELETE("/categories/:id", categoryHandler.Delete)

		authed.GET("/expenses", expenseHandler.List)
		authed.POST("/expenses", expenseHandler.Create)
		authed.GET("/expenses/:id", expenseHandler.Get)
		authed.PUT("/expenses/:id", expenseHandler.Update)
		authed.DELETE("/expenses/:id", expenseHandler.Delete)

		authed.GET("/balance/custom", balanceHandler.CustomPeriod)
	}

	return router
}
