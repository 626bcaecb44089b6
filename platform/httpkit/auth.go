package httpkit

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken = errors.New("missing token")
	errInvalidToken = errors.New("invalid token")
)

// AuthRequired accepts HS256/384/512 bearer tokens signed with the configured
// secret and exposes their subject. Without a secret every request passes.
func AuthRequired(cfg config.JWTConfig) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	return func(c *gin.Context) {
		if !cfg.IsAuthEnabled() {
			c.Next()
			return
		}

		subject, err := authenticate(parser, c.GetHeader("Authorization"), cfg.GetJWTAccessSecret())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
			return
		}

		c.Set(ContextSubjectKey, subject)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.SubjectKey, subject))
		c.Next()
	}
}

func authenticate(parser *jwt.Parser, header, secret string) (string, error) {
	scheme, raw, found := strings.Cut(header, " ")
	raw = strings.TrimSpace(raw)
	if !found || scheme != "Bearer" || raw == "" {
		return "", errMissingToken
	}

	token, err := parser.Parse(raw, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return "", errInvalidToken
	}
	return subject, nil
}
