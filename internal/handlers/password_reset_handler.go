package handlers

import (
	"net/http"
	"strings"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/service"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// PasswordResetHandler handles the forgot-password and reset-password flows
type PasswordResetHandler struct {
	resetService *service.PasswordResetService
}

// NewPasswordResetHandler creates a new PasswordResetHandler
func NewPasswordResetHandler(resetService *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{
		resetService: resetService,
	}
}

// ForgotPasswordForm serves the forgot-password form endpoint. The page
// itself is rendered by the frontend.
func (h *PasswordResetHandler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": "Submit your email address to receive a password reset link",
	})
}

// ForgotPassword issues a reset token for the submitted email and sends the
// reset link. An unknown email is reported back to the form so the user can
// correct a typo.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req := h.decodeForgotRequest(r)
	if req.Email == "" || !utils.IsValidEmail(req.Email) {
		utils.ValidationError(w, map[string]string{"email": "A valid email address is required"})
		return
	}

	if err := h.resetService.IssueToken(r.Context(), req.Email); err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(w, constants.MsgUserNotFoundByEmail)
			return
		}
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": constants.MsgResetLinkSent,
	})
}

// ResetPasswordForm gates the reset form. The token from the emailed link is
// validated without being consumed; the frontend only renders the new
// password fields when this returns OK.
func (h *PasswordResetHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(constants.QueryParamToken)
	if token == "" {
		utils.BadRequest(w, constants.MsgInvalidResetToken, nil)
		return
	}

	user, err := h.resetService.ValidateToken(r.Context(), token)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]interface{}{
		"valid": true,
		"email": utils.MaskEmail(user.Email),
	})
}

// ResetPassword consumes a reset token and sets the new password
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req := h.decodeResetRequest(r)

	if req.Token == "" {
		utils.BadRequest(w, constants.MsgInvalidResetToken, nil)
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		utils.ValidationError(w, map[string]string{"confirm_new_password": constants.MsgPasswordsDoNotMatch})
		return
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.resetService.ConsumeToken(r.Context(), req.Token, req.NewPassword); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": constants.MsgPasswordResetSuccess,
	})
}

func (h *PasswordResetHandler) decodeForgotRequest(r *http.Request) *models.ForgotPasswordRequest {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req models.ForgotPasswordRequest
		if err := utils.DecodeJSON(r, &req); err == nil {
			return &req
		}
		return &models.ForgotPasswordRequest{}
	}

	return &models.ForgotPasswordRequest{
		Email: r.FormValue("email"),
	}
}

func (h *PasswordResetHandler) decodeResetRequest(r *http.Request) *models.ResetPasswordRequest {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req models.ResetPasswordRequest
		if err := utils.DecodeJSON(r, &req); err == nil {
			return &req
		}
		return &models.ResetPasswordRequest{}
	}

	return &models.ResetPasswordRequest{
		Token:              r.FormValue("token"),
		NewPassword:        r.FormValue("new_password"),
		ConfirmNewPassword: r.FormValue("confirm_new_password"),
	}
}
