package utils // package utils provides helpers for token creation and hashing

import (
    "errors"  // sentinel error values for verification outcomes
    "strconv" // numeric subject encoding
    "time"    // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/bookhaven/book-catalogue/internal/model"
)

// Verification failures are collapsed into two distinguishable kinds: a
// token whose embedded expiry has passed, and everything else (missing,
// garbled, mis-signed, wrong algorithm).  Callers never receive a partial
// claims value alongside an error.
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the identity payload embedded in a signed token.  The subject
// of the registered claims carries the user ID; UserName and Role are
// custom claims used by the authorization gate and the review-author
// check.
type Claims struct {
    UserName string     `json:"userName"`
    Role     model.Role `json:"role"`
    jwt.RegisteredClaims
}

// UserID decodes the numeric user identifier from the subject claim.
func (c *Claims) UserID() (uint64, error) {
    return strconv.ParseUint(c.Subject, 10, 64)
}

// NewToken builds and signs an HS256 JWT for a user.  It takes the signing
// secret, the user's identity and role, and the token lifetime.  The JWT
// includes the subject (sub), userName and role claims plus expiration
// (exp) and issued at (iat) timestamps.
func NewToken(secret string, userID uint64, userName string, role model.Role, ttl time.Duration) (string, error) {
    now := time.Now().UTC()
    claims := Claims{
        UserName: userName,
        Role:     role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// ParseToken verifies a raw token string against the signing secret and
// returns the decoded claims.  The HS256 signing method is enforced;
// tokens signed with any other algorithm are rejected.  Failure is
// reported as ErrTokenExpired when the embedded expiry has passed and
// ErrTokenInvalid for every other defect.
func ParseToken(secret, raw string) (*Claims, error) {
    claims := new(Claims)
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return nil, ErrTokenExpired
        }
        return nil, ErrTokenInvalid
    }
    if !tok.Valid {
        return nil, ErrTokenInvalid
    }
    return claims, nil
}
