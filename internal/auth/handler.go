// File: internal/auth/handler.go
package auth

import (
	"errors"
	"net/http"

	"music_library_backend/internal/common"
	"music_library_backend/internal/config"
	"music_library_backend/internal/shared"
	"music_library_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	cfg          *config.Config
	userService  shared.Service
	tokenService shared.TokenService
	oauthService OAuthService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	cfg *config.Config,
	userService shared.Service,
	tokenService shared.TokenService,
	oauthService OAuthService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:          cfg,
		userService:  userService,
		tokenService: tokenService,
		oauthService: oauthService,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", h.logout)
		authGroup.GET("/google/login", h.googleLogin)
		authGroup.GET("/google/callback", h.googleCallback)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Register: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	newUser, err := h.userService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	if !h.issueSession(c, newUser) {
		return
	}
	common.RespondCreated(c, "Signup successful.", gin.H{"user": user.ToUserResponse(newUser)})
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	loggedInUser, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	if !h.issueSession(c, loggedInUser) {
		return
	}
	common.RespondOK(c, "Login successful.", gin.H{"user": user.ToUserResponse(loggedInUser)})
}

func (h *Handler) logout(c *gin.Context) {
	ClearAuthCookie(c, h.cfg)
	common.RespondOK(c, "Logged out.", nil)
}

func (h *Handler) googleLogin(c *gin.Context) {
	authURL, err := h.oauthService.GetGoogleLoginURL(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *Handler) googleCallback(c *gin.Context) {
	if errorParam := c.Query("error"); errorParam != "" {
		errorDesc := c.Query("error_description")
		h.logger.Error("Google OAuth callback error", zap.String("error", errorParam), zap.String("description", errorDesc))
		common.RespondWithError(c, common.ErrNoAuthUser.WithDetails("Google login failed: "+errorDesc))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		h.logger.Warn("Google callback missing code or state")
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing authorization code or state from Google."))
		return
	}

	appUser, _, err := h.oauthService.HandleGoogleCallback(c, code, state)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	// Redirect-only: identity travels solely via the cookie, never in the
	// redirect URL. An account created or linked above stays persisted even
	// if issuance fails here, but the caller still sees the failure.
	if !h.issueSession(c, appUser) {
		return
	}
	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/songs")
}

// issueSession mints a token and writes the auth cookie. On failure the
// request is aborted with an internal error and no cookie is written.
func (h *Handler) issueSession(c *gin.Context, u *shared.User) bool {
	token, _, err := h.tokenService.GenerateToken(u)
	if err != nil {
		h.logger.Error("Failed to generate session token", zap.Error(err), zap.String("userID", u.ID.String()))
		common.RespondWithError(c, common.ErrAuthInternal.WithDetails("Could not issue session token."))
		return false
	}
	SetAuthCookie(c, h.cfg, token)
	return true
}
