package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(envOr("JWT_SECRET", "voyara_dev_secret"))

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ContextKey is the type for values stored on request contexts by middleware.
type ContextKey string

const (
	UserIDKey ContextKey = "userId"
	OrgIDKey  ContextKey = "orgId"
	RoleKey   ContextKey = "role"
)

var Ctx = context.Background()
