package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/middleware"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func currentUserID(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.UserID
}
