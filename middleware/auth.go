package middleware

import (
	"net/http"
	"strings"

	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID         = "userID"
	ContextPsychologistID = "psychologistID"
	ContextRole           = "role"
)

// Roles carried in the token's role claim.
const (
	RoleUser         = "user"
	RolePsychologist = "psychologist"
)

// JWTAuthUserMiddleware authenticates end-user requests.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return requireRole(RoleUser, ContextUserID)
}

// JWTAuthPsychologistMiddleware authenticates psychologist requests.
func JWTAuthPsychologistMiddleware() gin.HandlerFunc {
	return requireRole(RolePsychologist, ContextPsychologistID)
}

// requireRole validates the bearer token, checks its role claim, and verifies
// the token hash against the live session stored in the auth cache. A token
// absent from the cache has been revoked and is rejected.
func requireRole(role, idKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subjectID, tokenRole, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || subjectID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if tokenRole != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		computedHash := utils.HashToken(tokenString)

		authCache := utils.GetAuthCacheClient()
		if authCache == nil {
			zap.L().Error("auth cache unavailable, rejecting request")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication temporarily unavailable"})
			return
		}

		ctx := c.Request.Context()
		cacheKey := utils.AuthCachePrefix + subjectID
		cachedHash, err := authCache.Get(ctx, cacheKey).Result()
		if err == redis.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or revoked"})
			return
		}
		if err != nil {
			zap.L().Error("auth cache lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication temporarily unavailable"})
			return
		}
		if cachedHash != computedHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		}

		c.Set(idKey, subjectID)
		c.Set(ContextRole, role)
		c.Next()
	}
}
