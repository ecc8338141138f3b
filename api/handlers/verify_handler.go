package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerificationSender delivers a verification code by email. Sent reports
// whether the message actually left over SMTP or was logged in dev mode.
type VerificationSender interface {
	SendVerification(ctx context.Context, email, code, name string) (sent bool, err error)
}

// VerifyHandler handles verification email requests
type VerifyHandler struct {
	mailer VerificationSender
	logger *zap.Logger
}

// NewVerifyHandler creates a new verification handler
func NewVerifyHandler(mailer VerificationSender, logger *zap.Logger) *VerifyHandler {
	return &VerifyHandler{mailer: mailer, logger: logger}
}

// SendVerificationRequest represents a verification email request
type SendVerificationRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}

// SendVerification handles POST /api/send-verification
func (h *VerifyHandler) SendVerification(c *gin.Context) {
	var req SendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or code"})
		return
	}

	email := strings.TrimSpace(req.Email)
	code := strings.TrimSpace(req.Code)
	if email == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or code"})
		return
	}

	sent, err := h.mailer.SendVerification(c.Request.Context(), email, code, strings.TrimSpace(req.Name))
	if err != nil {
		h.logger.Error("Verification email failed", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"ok": true, "sent": sent}
	if !sent {
		response["message"] = "SMTP is not configured. The verification code was written to the server log (dev mode)."
	}
	c.JSON(http.StatusOK, response)
}
