// internal/handlers/identity.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/coderforlife/boompa-hearts/internal/auth"
)

// EnsureGuest resolves the durable player identity for a request. A valid
// auth_token cookie yields the existing id; otherwise a fresh guest id is
// minted and set as a signed cookie. The id survives reconnects and page
// refreshes, which is what lets a player rejoin a game in progress.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie("auth_token"); err == nil {
		if userID, err := auth.AuthenticateJWT(cookie.Value); err == nil {
			return userID, nil
		}
	}

	userID := auth.NewGuestID()
	token, err := auth.CreateJWT(userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create guest token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return userID, nil
}
