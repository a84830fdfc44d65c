package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/bookhaven/book-catalogue/internal/handler"
	"github.com/bookhaven/book-catalogue/internal/middleware"
	"github.com/bookhaven/book-catalogue/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// used by load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api.  None
// of them sit behind the authorization gate: login and register create
// sessions, while refresh and logout read the token cookie themselves so
// they can report precise failures (missing cookie vs. expired window).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterCatalogue wires the category, book and review endpoints.  Reads
// are public; mutations require a verified token plus a role, and review
// mutations additionally pass the review-author gate.  The two role
// policies in use are admin-only and any-authenticated-identity.
func RegisterCatalogue(e *echo.Echo, ch *handler.CategoryHandler, bh *handler.BookHandler, rh *handler.ReviewHandler, reviews middleware.ReviewGetter, jwtSecret string) {
	auth := middleware.CookieAuth(jwtSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	anyUser := middleware.RequireRole(model.RoleUser, model.RoleAdmin)
	reviewAuthor := middleware.VerifyReviewAuthor(reviews)

	// Categories
	e.POST("/categories", ch.CreateCategory, auth, adminOnly)
	e.GET("/categories", ch.ListCategories)
	e.GET("/categories/topic/:topic", ch.GetCategoryByTopic)
	e.GET("/categories/title/:title", ch.GetCategoryByBookTitle)
	e.GET("/categories/:categoryID", ch.GetCategory)
	e.PUT("/categories/:categoryID", ch.UpdateCategory, auth, adminOnly)
	e.PATCH("/categories/:categoryID", ch.PatchCategory, auth, adminOnly)
	e.DELETE("/categories/:categoryID", ch.DeleteCategory, auth, adminOnly)

	// Books
	e.POST("/categories/:categoryID/books", bh.CreateBook, auth, adminOnly)
	e.GET("/books", bh.ListBooks)
	e.GET("/books/:bookID", bh.GetBook)
	e.GET("/books/:category/:title", bh.GetBookByCategoryTitle)
	e.GET("/categories/:categoryID/books", bh.ListBooksByCategory)
	e.GET("/categories/:categoryID/books/:bookID", bh.GetBookInCategory)
	e.PUT("/categories/:categoryID/books/:bookID", bh.UpdateBook, auth, adminOnly)
	e.PATCH("/categories/:categoryID/books/:bookID", bh.PatchBook, auth, anyUser)
	e.DELETE("/categories/:categoryID/books/:bookID", bh.DeleteBook, auth, adminOnly)

	// Reviews
	e.POST("/categories/:categoryID/books/:bookID/reviews", rh.CreateReview, auth, anyUser)
	e.GET("/reviews", rh.ListReviews)
	e.GET("/reviews/:reviewID", rh.GetReview)
	e.GET("/categories/:categoryID/books/:bookID/reviews", rh.ListReviewsByBook)
	e.GET("/categories/:categoryID/books/:bookID/reviews/:reviewID", rh.GetReviewInBook)
	e.PUT("/categories/:categoryID/books/:bookID/reviews/:reviewID", rh.UpdateReview, auth, anyUser, reviewAuthor)
	e.PATCH("/categories/:categoryID/books/:bookID/reviews/:reviewID", rh.PatchReview, auth, anyUser, reviewAuthor)
	e.DELETE("/categories/:categoryID/books/:bookID/reviews/:reviewID", rh.DeleteReview, auth, anyUser, reviewAuthor)
}

// RegisterReads wires the read-tracking endpoints under /reads.  All of
// them require an authenticated identity.
func RegisterReads(e *echo.Echo, h *handler.ReadBookHandler, jwtSecret string) {
	g := e.Group("/reads", middleware.CookieAuth(jwtSecret), middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	g.POST("", h.MarkRead)
	g.GET("/:userId", h.ListRead)
	g.GET("/:userId/:bookId", h.GetRead)
	g.DELETE("/:userId/:bookId", h.DeleteRead)
}
