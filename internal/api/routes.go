package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/koreroai/server/assessments"
	"github.com/koreroai/server/internal/auth"
	"github.com/koreroai/server/internal/relay"
)

// InitRoutes initializes all API routes. A nil issuer disables token
// issuance and makes the websocket endpoint open, matching deployments
// that authenticate at the network edge.
func InitRoutes(e *echo.Echo, r *relay.Relay, catalogue *assessments.Catalogue, issuer *auth.Issuer, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:   "ok",
			Service:  "korero-relay",
			Sessions: r.ActiveSessions(),
			Kinds:    catalogue.Kinds(),
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/tokens", func(c echo.Context) error {
		return issueToken(c, issuer, logger)
	})

	// WebSocket endpoint, one path segment per assessment kind
	e.GET("/ws/:kind", func(c echo.Context) error {
		return websocketWithAuth(r, c, issuer, logger)
	})
}

func issueToken(c echo.Context, issuer *auth.Issuer, logger *zap.Logger) error {
	if issuer == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "tokens_disabled",
			Message: "Token issuance is not configured",
		})
	}

	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind token request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.StudentID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Student ID is required",
		})
	}

	token, err := issuer.GenerateParticipantToken(req.StudentID, req.CourseID)
	if err != nil {
		logger.Error("Failed to generate participant token",
			zap.String("student_id", req.StudentID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(2 * time.Hour),
	})
}

// websocketWithAuth validates the participant token, when auth is
// configured, before handing the connection to the relay.
func websocketWithAuth(r *relay.Relay, c echo.Context, issuer *auth.Issuer, logger *zap.Logger) error {
	kind := c.Param("kind")

	if issuer != nil {
		token := c.QueryParam("token")
		if token == "" {
			authHeader := c.Request().Header.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				token = authHeader[7:]
			}
		}

		if token == "" {
			logger.Warn("WebSocket connection rejected: missing token")
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "missing_token",
				Message: "Participant token is required",
			})
		}

		claims, err := issuer.ValidateToken(token)
		if err != nil {
			logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired participant token",
			})
		}

		logger.Info("WebSocket connection authenticated",
			zap.String("student_id", claims.StudentID),
			zap.String("kind", kind))
	}

	return r.HandleWebSocket(c, kind)
}
