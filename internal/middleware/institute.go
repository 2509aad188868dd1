package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/requestdata"
)

// InstituteMiddleware extracts the user and institute (tenant) context
// from the bearer token and threads it through the request context.
// Issuing the tokens is someone else's job; this only reads the claims.
type InstituteMiddleware struct {
	log       *logger.Logger
	jwtSecret []byte
}

func NewInstituteMiddleware(log *logger.Logger, jwtSecret string) *InstituteMiddleware {
	return &InstituteMiddleware{
		log:       log.With("middleware", "InstituteMiddleware"),
		jwtSecret: []byte(jwtSecret),
	}
}

type instituteClaims struct {
	UserID      string `json:"user_id"`
	InstituteID string `json:"institute_id"`
	jwt.RegisteredClaims
}

func (m *InstituteMiddleware) RequireInstitute() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		claims := &instituteClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user claim"})
			return
		}
		instituteID, err := uuid.Parse(claims.InstituteID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing institute context"})
			return
		}

		rd := &requestdata.RequestData{
			TokenString: tokenString,
			UserID:      userID,
			InstituteID: instituteID,
		}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
