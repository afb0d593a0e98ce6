package server

import (
	"errors"
	"net/http"
	"strings"

	"fashionhub/internal/auth"
	"fashionhub/internal/avatar"
	apperrors "fashionhub/internal/errors"
	"fashionhub/internal/models"
	"fashionhub/internal/sentry"
	"fashionhub/pkg/protocol"

	"github.com/gin-gonic/gin"
)

// maxUploadBody bounds the whole multipart request, leaving room for headers around the file.
const maxUploadBody = avatar.MaxSize + 64*1024

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, protocol.StatusResponse{Success: false, Message: message})
}

func (s *Server) handleMe(c *gin.Context) {
	sess, err := s.sessions.GetSession(c.Request)
	if err != nil {
		c.JSON(http.StatusOK, protocol.MeResponse{Authenticated: false, User: nil})
		return
	}
	user := sess.User
	c.JSON(http.StatusOK, protocol.MeResponse{Authenticated: true, User: &user})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req protocol.LoginRequest
	// A malformed body is treated like an empty one.
	_ = c.ShouldBindJSON(&req)

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		s.metrics.authAttempt("login", "invalid")
		fail(c, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.metrics.authAttempt("login", "rejected")
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		sentry.CaptureErrorWithContext(c, err, "login lookup failed")
		fail(c, http.StatusInternalServerError, "Internal error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.metrics.authAttempt("login", "rejected")
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.startSession(c, "login", user)
}

func (s *Server) handleSignup(c *gin.Context) {
	var req protocol.SignupRequest
	_ = c.ShouldBindJSON(&req)

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		s.metrics.authAttempt("signup", "invalid")
		fail(c, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	if _, err := s.store.GetUserByEmail(email); err == nil {
		s.metrics.authAttempt("signup", "conflict")
		fail(c, http.StatusConflict, "Email already in use")
		return
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		sentry.CaptureErrorWithContext(c, err, "signup lookup failed")
		fail(c, http.StatusInternalServerError, "Internal error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		sentry.CaptureErrorWithContext(c, err, "password hashing failed")
		fail(c, http.StatusInternalServerError, "Internal error")
		return
	}

	role := models.DefaultRole
	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: &role}
	if err := s.store.CreateUser(user); err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			s.metrics.authAttempt("signup", "conflict")
			fail(c, http.StatusConflict, "Email already in use")
			return
		}
		sentry.CaptureErrorWithContext(c, err, "create user failed")
		fail(c, http.StatusInternalServerError, "Internal error")
		return
	}

	s.startSession(c, "signup", user)
}

func (s *Server) startSession(c *gin.Context, action string, user *models.User) {
	public := user.Public()
	if err := s.sessions.SetSession(c.Writer, *public); err != nil {
		sentry.CaptureErrorWithContextf(c, err, "%s: session cookie failed", action)
		fail(c, http.StatusInternalServerError, "Internal error")
		return
	}
	s.metrics.authAttempt(action, "success")
	c.JSON(http.StatusOK, protocol.AuthResponse{Success: true, User: public})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.sessions.ClearSession(c.Writer)
	c.JSON(http.StatusOK, protocol.StatusResponse{Success: true})
}

func (s *Server) handleUploadAvatar(c *gin.Context) {
	sess, err := s.sessions.GetSession(c.Request)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	userID := sess.User.ID

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusBadRequest, "File too large (max 2MB)")
			return
		}
		fail(c, http.StatusBadRequest, "File is required")
		return
	}
	if fileHeader.Size > avatar.MaxSize {
		fail(c, http.StatusBadRequest, "File too large (max 2MB)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Upload error")
		return
	}
	defer file.Close()

	url, err := s.avatars.Save(userID, file)
	switch {
	case errors.Is(err, avatar.ErrTooLarge):
		fail(c, http.StatusBadRequest, "File too large (max 2MB)")
		return
	case errors.Is(err, avatar.ErrUnsupportedType):
		fail(c, http.StatusBadRequest, "Only JPG, PNG, WEBP allowed")
		return
	case errors.Is(err, avatar.ErrEmpty):
		fail(c, http.StatusBadRequest, "Upload error")
		return
	case err != nil:
		sentry.CaptureErrorWithContextf(c, err, "avatar save failed for user %d", userID)
		fail(c, http.StatusInternalServerError, "Failed to save file")
		return
	}

	if err := s.store.UpdateAvatar(userID, url); err != nil {
		s.avatars.Remove(url)
		if errors.Is(err, apperrors.ErrNotFound) {
			fail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		sentry.CaptureErrorWithContextf(c, err, "avatar update failed for user %d", userID)
		fail(c, http.StatusInternalServerError, "Failed to save file")
		return
	}

	if previous := sess.User.Avatar; previous != nil && *previous != url {
		if err := s.avatars.Remove(*previous); err != nil {
			sentry.CaptureErrorWithContextf(c, err, "remove previous avatar for user %d", userID)
		}
	}

	user := sess.User
	user.Avatar = &url
	if err := s.sessions.SetSession(c.Writer, user); err != nil {
		sentry.CaptureErrorWithContextf(c, err, "refresh session for user %d", userID)
	}

	c.JSON(http.StatusOK, protocol.AvatarResponse{
		Success:   true,
		Message:   "Avatar updated",
		AvatarURL: url,
	})
}
