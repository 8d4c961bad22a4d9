package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"voyara/globals"
	"voyara/utils"
)

// Claims carried by every advisor token. OrgID scopes all data access.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	OrgID    string `json:"orgId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// CreateJWT signs a token for the given user, valid for 72 hours.
func CreateJWT(userID, username, orgID, role string) (string, error) {
	claims := &Claims{
		Username: username,
		UserID:   userID,
		OrgID:    orgID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// ValidateJWT parses and verifies a bearer token string.
func ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func withClaims(r *http.Request, claims *Claims) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, globals.OrgIDKey, claims.OrgID)
	ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
	return r.WithContext(ctx)
}

// Authenticate rejects requests without a valid advisor token.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := bearerToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := ValidateJWT(token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, withClaims(r, claims), ps)
	}
}

// OptionalAuth attaches claims when a valid token is present but lets the
// request through either way. Used by share-link routes where a logged-in
// advisor gets extra fields.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token := bearerToken(r); token != "" {
			if claims, err := ValidateJWT(token); err == nil {
				r = withClaims(r, claims)
			}
		}
		next(w, r, ps)
	}
}

// RequireRole gates a route to one role ("admin" etc.) after Authenticate.
func RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if utils.GetRoleFromRequest(r) != role {
			utils.RespondWithError(w, http.StatusForbidden, "insufficient role")
			return
		}
		next(w, r, ps)
	})
}
