package routes

import (
	"net/http"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/service"
	"research-proposal-backend/middleware"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler adalah user management untuk admin.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SetupUserRoutes mendaftarkan endpoint user management (khusus ADMIN).
func (h *UserHandler) SetupUserRoutes(r *gin.Engine) {
	users := r.Group("/api/v1/users")
	users.Use(middleware.AuthMiddleware(), middleware.RequireRoles(model.RoleAdmin))
	{
		users.POST("", h.Create)
		users.GET("", h.GetAll)
		users.GET("/:id", h.GetDetail)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Deactivate)
	}
}

func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *UserHandler) Create(ctx *gin.Context) {
	var input struct {
		Nama           string `json:"nama" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required,min=6"`
		Role           string `json:"role" binding:"required"`
		JurusanID      string `json:"jurusanId"`
		ProdiID        string `json:"prodiId"`
		BidangKeahlian string `json:"bidangKeahlian"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	jurusanID, err := parseOptionalUUID(input.JurusanID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format jurusanId salah (harus UUID)", err.Error()))
		return
	}
	prodiID, err := parseOptionalUUID(input.ProdiID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format prodiId salah (harus UUID)", err.Error()))
		return
	}

	user, err := h.userService.Create(service.CreateUserInput{
		Nama:           input.Nama,
		Email:          input.Email,
		Password:       input.Password,
		Role:           model.Role(input.Role),
		JurusanID:      jurusanID,
		ProdiID:        prodiID,
		BidangKeahlian: input.BidangKeahlian,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("User berhasil dibuat", user))
}

func (h *UserHandler) GetAll(ctx *gin.Context) {
	role := model.Role(ctx.Query("role"))
	users, err := h.userService.GetAll(role)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil semua user", users))
}

func (h *UserHandler) GetDetail(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil detail user", user))
}

func (h *UserHandler) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input struct {
		Nama           *string `json:"nama"`
		Email          *string `json:"email"`
		Role           *string `json:"role"`
		Status         *string `json:"status"`
		BidangKeahlian *string `json:"bidangKeahlian"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	upd := service.UpdateUserInput{
		Nama:           input.Nama,
		Email:          input.Email,
		BidangKeahlian: input.BidangKeahlian,
	}
	if input.Role != nil {
		role := model.Role(*input.Role)
		upd.Role = &role
	}
	if input.Status != nil {
		status := model.UserStatus(*input.Status)
		upd.Status = &status
	}

	user, err := h.userService.Update(id, upd)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("User berhasil diperbarui", user))
}

// Deactivate menonaktifkan user (soft delete).
func (h *UserHandler) Deactivate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.userService.Deactivate(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("User berhasil dinonaktifkan", nil))
}
