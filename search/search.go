package search

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	"voyara/globals"
	"voyara/rdx"
	"voyara/utils"
)

// Tokenize lowercases and splits free text into index tokens, dropping
// one-character noise.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	seen := make(map[string]bool, len(fields))
	var tokens []string
	for _, f := range fields {
		if len(f) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

func tokenKey(orgID, token string) string {
	return "search:" + orgID + ":" + token
}

// IndexEntity adds an entity under every token of its display text.
// Indexing is best-effort; a Redis failure only costs search recall.
func IndexEntity(orgID, kind, id, text string) {
	member := kind + ":" + id
	for _, token := range Tokenize(text) {
		if err := rdx.RdxSAdd(tokenKey(orgID, token), member); err != nil {
			log.Printf("[Search] index %s failed: %v", member, err)
			return
		}
	}
}

// RemoveEntity drops an entity from the tokens of its last known text.
func RemoveEntity(orgID, kind, id, text string) {
	member := kind + ":" + id
	for _, token := range Tokenize(text) {
		if err := rdx.Conn.SRem(globals.Ctx, tokenKey(orgID, token), member).Err(); err != nil {
			log.Printf("[Search] deindex %s failed: %v", member, err)
			return
		}
	}
}

// Match is one search hit.
type Match struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Query intersects the token sets of all query tokens: an entity matches
// only when every token matched it.
func Query(ctx context.Context, orgID, query string, limit int) ([]Match, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	type tokenSet struct {
		members []string
		err     error
	}
	sets := make([]tokenSet, len(tokens))

	var wg sync.WaitGroup
	for i, token := range tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			members, err := rdx.RdxSMembers(tokenKey(orgID, token))
			sets[i] = tokenSet{members: members, err: err}
		}(i, token)
	}
	wg.Wait()

	counts := make(map[string]int)
	for _, s := range sets {
		if s.err != nil {
			return nil, s.err
		}
		if len(s.members) == 0 {
			return nil, nil
		}
		for _, m := range s.members {
			counts[m]++
		}
	}

	var members []string
	for m, c := range counts {
		if c == len(tokens) {
			members = append(members, m)
		}
	}
	sort.Strings(members)
	if limit > 0 && len(members) > limit {
		members = members[:limit]
	}

	matches := make([]Match, 0, len(members))
	for _, m := range members {
		kind, id, ok := strings.Cut(m, ":")
		if !ok {
			continue
		}
		matches = append(matches, Match{Kind: kind, ID: id})
	}
	return matches, nil
}

// SearchHandler serves GET /api/v1/search?q=...
func SearchHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	q := r.URL.Query().Get("q")
	limit := utils.QueryInt(r, "limit", 20)

	matches, err := Query(ctx, orgID, q, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "search failed", err)
		return
	}
	if matches == nil {
		matches = []Match{}
	}
	utils.RespondWithJSON(w, http.StatusOK, matches)
}
