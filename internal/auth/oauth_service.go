// File: internal/auth/oauth_service.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is a variable so tests can point it at a stub server.
var GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthService defines the interface for the Google OAuth bridge.
type OAuthService interface {
	GetGoogleLoginURL(c *gin.Context) (string, error)
	HandleGoogleCallback(c *gin.Context, code string, state string) (usr *shared.User, wasCreated bool, err error)
}

type oauthService struct {
	cfg               *config.Config
	oauthUserProvider shared.OAuthUserProvider
	logger            *zap.Logger
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(
	cfg *config.Config,
	oauthUserProvider shared.OAuthUserProvider,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		cfg:               cfg,
		oauthUserProvider: oauthUserProvider,
		logger:            logger.Named("OAuthService"),
	}
}

func getGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleCallbackURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

// GetGoogleLoginURL generates the URL for Google OAuth login and plants the
// CSRF state cookie.
func (s *oauthService) GetGoogleLoginURL(c *gin.Context) (string, error) {
	state, err := generateAndSetOAuthState(c, s.cfg)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state for Google", zap.Error(err))
		return "", common.ErrAuthInternal.WithDetails("Could not initiate Google login.")
	}
	googleCfg := getGoogleOAuthConfig(s.cfg)
	authURL := googleCfg.AuthCodeURL(state)
	s.logger.Debug("Generated Google login URL", zap.String("url", authURL))
	return authURL, nil
}

// HandleGoogleCallback processes the callback from Google: verifies state,
// exchanges the code, fetches the userinfo profile, and resolves it to a
// local user via find-or-create-or-link.
func (s *oauthService) HandleGoogleCallback(c *gin.Context, code string, state string) (*shared.User, bool, error) {
	storedState, err := consumeOAuthStateCookie(c, s.cfg)
	if err != nil {
		s.logger.Error("Failed to get stored OAuth state for Google callback", zap.Error(err))
		return nil, false, common.ErrBadRequest.WithDetails("Invalid session or state mismatch.")
	}
	if state != storedState {
		s.logger.Error("Google OAuth state mismatch")
		return nil, false, common.ErrBadRequest.WithDetails("OAuth state mismatch. Possible CSRF attack.")
	}

	googleCfg := getGoogleOAuthConfig(s.cfg)
	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, http.DefaultClient)

	token, err := googleCfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Failed to exchange Google auth code for token", zap.Error(err))
		return nil, false, common.ErrAuthInternal.WithDetails("Could not exchange Google auth code.")
	}
	if !token.Valid() {
		s.logger.Error("Google token received is invalid")
		return nil, false, common.ErrAuthInternal.WithDetails("Received invalid token from Google.")
	}

	client := googleCfg.Client(ctx, token)
	userInfoResp, err := client.Get(GoogleUserInfoURL)
	if err != nil {
		s.logger.Error("Failed to fetch user info from Google", zap.Error(err))
		return nil, false, common.ErrNoAuthUser.WithDetails("Could not fetch user info from Google.")
	}
	defer userInfoResp.Body.Close()

	if userInfoResp.StatusCode != http.StatusOK {
		s.logger.Error("Google user info request failed", zap.Int("status", userInfoResp.StatusCode))
		return nil, false, common.ErrNoAuthUser.WithDetails(fmt.Sprintf("Google returned status %d for user info.", userInfoResp.StatusCode))
	}

	var googleUser struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.NewDecoder(userInfoResp.Body).Decode(&googleUser); err != nil {
		s.logger.Error("Failed to decode Google user info", zap.Error(err))
		return nil, false, common.ErrAuthInternal.WithDetails("Could not process Google user information.")
	}
	if googleUser.Sub == "" {
		s.logger.Error("Google user info missing subject identifier")
		return nil, false, common.ErrNoAuthUser.WithDetails("Missing user identifier from Google.")
	}

	userProfile := shared.OAuthUserProfile{
		GoogleID:      googleUser.Sub,
		Email:         strings.ToLower(googleUser.Email),
		EmailVerified: googleUser.EmailVerified,
	}

	appUser, wasCreated, err := s.oauthUserProvider.FindOrCreateOrLinkOAuthUser(c.Request.Context(), userProfile)
	if err != nil {
		s.logger.Error("Failed to find or create user from Google profile", zap.Error(err))
		if _, ok := common.IsAPIError(err); ok {
			return nil, false, err
		}
		return nil, false, common.ErrAuthInternal.WithDetails("Failed to process user account after Google login.")
	}

	if wasCreated {
		s.logger.Info("Google OAuth signup", zap.String("userID", appUser.ID.String()), zap.String("email", appUser.Email))
	} else {
		s.logger.Info("Google OAuth login", zap.String("userID", appUser.ID.String()), zap.String("email", appUser.Email))
	}
	return appUser, wasCreated, nil
}
