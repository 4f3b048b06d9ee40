package handlers

import (
	"log"
	"net/http"
	"strings"
)

// originChecker builds the websocket origin check from the configured
// allow list. A "*" entry allows every origin.
func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.ToLower(strings.TrimSpace(origin))
		if origin == "*" {
			allowAll = true
			continue
		}
		if origin != "" {
			set[origin] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := strings.ToLower(r.Header.Get("Origin"))
		if origin == "" {
			return false
		}
		if _, ok := set[origin]; ok {
			return true
		}
		log.Printf("blocked websocket connection from disallowed origin %q", origin)
		return false
	}
}
