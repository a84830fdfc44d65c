package middleware

import (
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/bookhaven/book-catalogue/internal/model"
    "github.com/bookhaven/book-catalogue/internal/repository"
)

// ReviewGetter is the slice of the review store this gate needs.
type ReviewGetter interface {
    GetByID(ctx context.Context, id uint64) (*model.Review, error)
}

// VerifyReviewAuthor returns a middleware that authorizes by resource
// ownership rather than role alone: the target review is re-fetched
// inside the gate and the caller's userName must equal the review's
// stored reviewer name, unless the caller is an admin.  A missing review
// is a 404 independent of the authorization outcome.  Must run after
// CookieAuth.
func VerifyReviewAuthor(reviews ReviewGetter) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, ok := SessionFrom(c)
            if !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied. No token provided."})
            }
            reviewID, err := strconv.ParseUint(c.Param("reviewID"), 10, 64)
            if err != nil {
                return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found."})
            }
            review, err := reviews.GetByID(c.Request().Context(), reviewID)
            if err != nil {
                if errors.Is(err, repository.ErrReviewNotFound) {
                    return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found."})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error loading review.", "error": err.Error()})
            }
            if review.ReviewerName != claims.UserName && claims.Role != model.RoleAdmin {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied. You are not the author of this review."})
            }
            return next(c)
        }
    }
}
