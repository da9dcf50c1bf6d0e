// File: internal/auth/cookie.go
package auth

import (
	"fmt"
	"net/http"

	"music_library_backend/internal/config"
	"music_library_backend/internal/platform/crypto"

	"github.com/gin-gonic/gin"
)

// SetAuthCookie writes the session token into the auth cookie. Exactly one
// cookie is set per issuance: httpOnly, SameSite=Strict, Secure only in
// release deployments.
func SetAuthCookie(c *gin.Context, cfg *config.Config, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.AuthCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.AuthCookieDomain,
		MaxAge:   int(cfg.AuthCookieMaxAge.Seconds()),
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(c *gin.Context, cfg *config.Config) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.AuthCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.AuthCookieDomain,
		MaxAge:   -1,
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// generateAndSetOAuthState mints a CSRF state value and stores it in a
// short-lived cookie for the callback to verify.
func generateAndSetOAuthState(c *gin.Context, cfg *config.Config) (string, error) {
	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.OAuthStateCookie,
		Value:    state,
		Path:     "/",
		Domain:   cfg.AuthCookieDomain,
		MaxAge:   int(cfg.OAuthStateMaxAge.Seconds()),
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode, // Strict would drop the cookie on the IdP redirect
	})
	return state, nil
}

// consumeOAuthStateCookie retrieves and deletes the OAuth state cookie.
func consumeOAuthStateCookie(c *gin.Context, cfg *config.Config) (string, error) {
	cookie, err := c.Request.Cookie(cfg.OAuthStateCookie)
	if err != nil {
		return "", fmt.Errorf("%s cookie not found: %w", cfg.OAuthStateCookie, err)
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.OAuthStateCookie,
		Value:    "",
		Path:     "/",
		Domain:   cfg.AuthCookieDomain,
		MaxAge:   -1,
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return cookie.Value, nil
}
