package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // sentinel comparison
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // expiry computation and DB call timeouts

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/bookhaven/book-catalogue/internal/config"
    "github.com/bookhaven/book-catalogue/internal/middleware"
    "github.com/bookhaven/book-catalogue/internal/model"
    "github.com/bookhaven/book-catalogue/internal/repository"
    "github.com/bookhaven/book-catalogue/internal/utils"
)

// UserStore is the slice of the credential store the auth endpoints need.
// *repository.UserRepo satisfies it; tests substitute an in-memory fake.
type UserStore interface {
    Create(ctx context.Context, userName, email, password string, role model.Role, cost int) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
    TouchSession(ctx context.Context, id uint64, accessExp, refreshExp time.Time) error
    ClearSession(ctx context.Context, id uint64) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
    Cfg   config.Config
    Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
    UserName string `json:"userName"`
    Email    string `json:"email"`
    Password string `json:"password"`
    Role     string `json:"role"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

func (h *AuthHandler) accessTTL() time.Duration {
    return time.Duration(h.Cfg.AccessTTLMin) * time.Minute
}
func (h *AuthHandler) refreshTTL() time.Duration {
    return time.Duration(h.Cfg.RefreshTTLHours) * time.Hour
}

// Register creates a user record.  No token is issued; the client logs in
// afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.UserName = strings.TrimSpace(req.UserName)
    if req.UserName == "" || req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "userName, email and password are required"})
    }
    role := model.RoleUser
    if req.Role != "" {
        parsed, ok := model.ParseRole(req.Role)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid role specified"})
        }
        role = parsed
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Users.Create(ctx, req.UserName, req.Email, req.Password, role, h.Cfg.BcryptCost); err != nil {
        if errors.Is(err, repository.ErrDuplicateUser) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "User with this username or email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error registering user", "error": err.Error()})
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

// Login verifies credentials, advances the session expiry bookkeeping and
// sets the signed token cookie (http-only, secure, access-lifetime
// max-age).
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging in", "error": err.Error()})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
    }

    token, err := utils.NewToken(h.Cfg.JWTSecret, u.ID, u.UserName, u.Role, h.accessTTL())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging in", "error": err.Error()})
    }

    now := time.Now().UTC()
    accessExp := now.Add(h.accessTTL())
    refreshExp := now.Add(h.refreshTTL())
    if err := h.Users.TouchSession(ctx, u.ID, accessExp, refreshExp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging in", "error": err.Error()})
    }
    u.AccessExp = &accessExp
    u.RefreshExp = &refreshExp

    c.SetCookie(&http.Cookie{
        Name:     middleware.TokenCookie,
        Value:    token,
        Path:     "/",
        MaxAge:   h.Cfg.AccessTTLMin * 60,
        HttpOnly: true,
        Secure:   true,
    })
    return c.JSON(http.StatusOK, echo.Map{"message": "Login successful", "user": u, "token": token})
}

// Refresh re-validates the presented token, checks the stored refresh
// expiry and issues a fresh access token.  Both bookkeeping fields are
// advanced again, so the refresh window slides forward on every use.
func (h *AuthHandler) Refresh(c echo.Context) error {
    cookie, err := c.Cookie(middleware.TokenCookie)
    if err != nil || cookie.Value == "" {
        return c.NoContent(http.StatusForbidden)
    }
    claims, err := utils.ParseToken(h.Cfg.JWTSecret, cookie.Value)
    if err != nil {
        return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid or expired refresh token", "error": err.Error()})
    }
    uid, err := claims.UserID()
    if err != nil {
        return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid or expired refresh token", "error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error refreshing token", "error": err.Error()})
    }
    if !utils.SessionValid(time.Now().UTC(), u.RefreshExp) {
        return c.JSON(http.StatusForbidden, echo.Map{"message": "Refresh token expired"})
    }

    token, err := utils.NewToken(h.Cfg.JWTSecret, u.ID, u.UserName, u.Role, h.accessTTL())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error refreshing token", "error": err.Error()})
    }
    now := time.Now().UTC()
    if err := h.Users.TouchSession(ctx, u.ID, now.Add(h.accessTTL()), now.Add(h.refreshTTL())); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error refreshing token", "error": err.Error()})
    }
    return c.JSON(http.StatusOK, echo.Map{"accessToken": token})
}

// Logout clears the session bookkeeping and the token cookie.  Future
// refresh attempts fail even though the token itself remains
// cryptographically valid until its embedded expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
    cookie, err := c.Cookie(middleware.TokenCookie)
    if err != nil || cookie.Value == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "No refresh token provided"})
    }
    claims, err := utils.ParseToken(h.Cfg.JWTSecret, cookie.Value)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging out", "error": err.Error()})
    }
    uid, err := claims.UserID()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging out", "error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Users.GetByID(ctx, uid); err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging out", "error": err.Error()})
    }
    if err := h.Users.ClearSession(ctx, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging out", "error": err.Error()})
    }

    c.SetCookie(&http.Cookie{
        Name:     middleware.TokenCookie,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   true,
    })
    return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}
