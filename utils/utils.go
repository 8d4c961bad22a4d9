package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"voyara/globals"
)

// StaticDir is the root of uploaded assets, shared by every package
// that stores or serves files.
func StaticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}
	return "./static"
}

// GenerateRandomString returns a URL-safe random hex string of length n.
func GenerateRandomString(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return strings.ReplaceAll(uuid.New().String(), "-", "")[:n]
	}
	return hex.EncodeToString(b)[:n]
}

// GenerateID returns a short prefixed identifier, e.g. "trp_4f6a0c91d2".
func GenerateID(prefix string) string {
	return prefix + "_" + GenerateRandomString(10)
}

// GenerateIntID returns a random numeric string of n digits.
func GenerateIntID(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			sb.WriteByte('0')
			continue
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String()
}

// GetUserIDFromRequest returns the authenticated user id set by middleware.
func GetUserIDFromRequest(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(globals.UserIDKey).(string)
	return id, ok && id != ""
}

// GetOrgIDFromRequest returns the org id set by middleware. Every tenant
// query must be filtered by this value.
func GetOrgIDFromRequest(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(globals.OrgIDKey).(string)
	return id, ok && id != ""
}

// GetRoleFromRequest returns the role claim set by middleware.
func GetRoleFromRequest(r *http.Request) string {
	role, _ := r.Context().Value(globals.RoleKey).(string)
	return role
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// TruncateText shortens s to max runes, appending an ellipsis when cut.
func TruncateText(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
