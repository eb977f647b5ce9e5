// Package authz restricts integration resources (publishing pages) to the
// set a user is authorized for.
//
// An empty authorized set means no restriction has been configured and every
// resource is visible. It never means "authorized for nothing".
package authz

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studiogate/internal/common"
)

// Filter keeps the items whose key is in allowed, preserving input order.
// When allowed is empty, items is returned unchanged.
func Filter[T any](items []T, allowed []string, key func(T) string) []T {
	if len(allowed) == 0 {
		return items
	}

	set := toSet(allowed)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, ok := set[key(it)]; ok {
			out = append(out, it)
		}
	}
	return out
}

// CompositeKey identifies a page reachable through one of several connected
// accounts.
func CompositeKey(accountID, pageID string) string {
	return accountID + ":" + pageID
}

// SplitCompositeKey is the inverse of CompositeKey. The account id may not
// contain a colon, the page id may.
func SplitCompositeKey(key string) (accountID, pageID string, ok bool) {
	accountID, pageID, ok = strings.Cut(key, ":")
	if !ok || accountID == "" || pageID == "" {
		return "", "", false
	}
	return accountID, pageID, true
}

// Permits reports whether id may be acted upon under allowed.
func Permits(allowed []string, id string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == id {
			return true
		}
	}
	return false
}

// CheckTargets returns common.ErrForbidden naming the first id outside
// allowed.
func CheckTargets(allowed []string, ids []string) error {
	if len(allowed) == 0 {
		return nil
	}
	set := toSet(allowed)
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return fmt.Errorf("%w: page %q", common.ErrForbidden, id)
		}
	}
	return nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
