package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes sets up all API routes. sessionAuth guards every route
// except the docs; rateLimit runs after it so limits are per user.
func RegisterRoutes(e *echo.Echo, sessionAuth, rateLimit echo.MiddlewareFunc, publicURL string, authHandler *AuthHandler, expenseHandler *ExpenseHandler, wsHandler *WebSocketHandler) {
	// API docs (public)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", OpenAPI3Spec(publicURL))

	// API version 1
	api := e.Group("/api/v1")

	// WebSocket (authenticates itself so browsers can pass ?token=)
	api.GET("/ws", wsHandler.HandleWS)

	// Auth routes (protected)
	api.GET("/me", authHandler.Me, sessionAuth)
	auth := api.Group("/auth", sessionAuth)
	auth.POST("/callback", authHandler.Callback)

	// Expense routes (protected)
	expenses := api.Group("/expenses", sessionAuth, rateLimit)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/categories", expenseHandler.GetCategories)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.EditExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
}
