package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/websaver/internal/sync"
)

// Account resolves the session account from the X-Account-ID header and
// runs the matching load protocol when the account changed. An absent
// header means an unauthenticated session.
func Account(c *sync.Coordinator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Account-ID")
			cur := c.User()

			switch {
			case id == "" && cur != nil:
				c.OnAuthChanged(r.Context(), nil)
			case id != "" && (cur == nil || cur.ID != id):
				c.OnAuthChanged(r.Context(), &sync.User{
					ID:    id,
					Email: r.Header.Get("X-Account-Email"),
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}
