package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/service"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, userService *service.UserService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.UserRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.authService.RegisterUser(r.Context(), &reg)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, user)
}

// LoginPage serves the login form endpoint. The page itself is rendered by
// the frontend; this echoes whether the last attempt failed.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	loginError := r.URL.Query().Get(constants.QueryParamLoginError) == "true"

	response := map[string]interface{}{
		"login_error": loginError,
	}
	if loginError {
		response["message"] = "Invalid email or password"
	}

	utils.JSON(w, constants.StatusOK, response)
}

// Login authenticates a user from the login form. On success it sets the
// auth token cookie and redirects to the page recorded before login, or the
// dashboard. On failure it redirects back to the login page with an error
// flag and no hint about which part was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds := h.decodeCredentials(r)

	_, accessToken, err := h.authService.AuthenticateUser(r.Context(), creds)
	if err != nil {
		http.Redirect(w, r, constants.AuthLoginPath+"?"+constants.QueryParamLoginError+"=true", constants.StatusFound)
		return
	}

	expiry := h.jwtService.GetConfig().Expiry
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AuthTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(expiry.Seconds()),
		Expires:  time.Now().Add(expiry),
	})

	http.Redirect(w, r, h.postLoginTarget(w, r), constants.StatusFound)
}

// postLoginTarget resolves where a fresh login should land and clears the
// recorded origin cookie.
func (h *AuthHandler) postLoginTarget(w http.ResponseWriter, r *http.Request) string {
	target := constants.AuthDashboardPath

	if cookie, err := r.Cookie(constants.PriorURLCookie); err == nil && cookie.Value != "" {
		target = cookie.Value
		http.SetCookie(w, &http.Cookie{
			Name:   constants.PriorURLCookie,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}

	return target
}

// decodeCredentials reads login credentials from a form post or a JSON body
func (h *AuthHandler) decodeCredentials(r *http.Request) *models.UserCredentials {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var creds models.UserCredentials
		if err := utils.DecodeJSON(r, &creds); err == nil {
			return &creds
		}
		return &models.UserCredentials{}
	}

	return &models.UserCredentials{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
}

// Logout clears the auth token cookie and sends the user back to the login page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AuthTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	http.Redirect(w, r, constants.AuthLoginPath, constants.StatusFound)
}

// Dashboard returns the current user with their roles
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"user": user,
	})
}
