package routes

import (
	"errors"
	"log"
	"net/http"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/service"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError memetakan kelas error service ke kode HTTP. Error tak dikenal
// menjadi 500 dengan pesan generik; detailnya hanya di-log di server.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, utils.BuildResponseFailed(err.Error(), "validation_error"))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, utils.BuildResponseFailed(err.Error(), "not_found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, utils.BuildResponseFailed(err.Error(), "forbidden"))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, utils.BuildResponseFailed(err.Error(), "conflict"))
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError,
			utils.BuildResponseFailed("Terjadi kesalahan pada server", "internal_error"))
	}
}

// currentUser membangun identitas pemanggil dari context yang diisi
// AuthMiddleware. Cukup ID + Role untuk seluruh pengecekan policy.
func currentUser(c *gin.Context) model.User {
	userIDI, _ := c.Get("userID")
	roleI, _ := c.Get("role")
	userID, _ := userIDI.(uuid.UUID)
	role, _ := roleI.(model.Role)
	return model.User{ID: userID, Role: role}
}

// parseIDParam membaca path param sebagai UUID; gagal parse berarti 400.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Format ID tidak valid (harus UUID)", err.Error()))
		return uuid.Nil, false
	}
	return id, true
}
