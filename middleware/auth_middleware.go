package middleware

import (
	"net/http"
	"strings"

	"research-proposal-backend/app/model"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware memvalidasi JWT dari header Authorization (Bearer token)
// dan menyimpan userID + role ke dalam context untuk dipakai handler.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Authorization token diperlukan", "missing_or_invalid_authorization_header"))
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Authorization token diperlukan", "empty_token"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Token tidak valid atau kedaluwarsa", err.Error()))
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRoles membatasi endpoint untuk role tertentu. Dipasang setelah
// AuthMiddleware. Gagal role check menghasilkan 403, bukan 401.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleI, _ := c.Get("role")
		role, _ := roleI.(model.Role)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden,
			utils.BuildResponseFailed("Anda tidak punya akses ke fitur ini", "forbidden"))
		c.Abort()
	}
}
