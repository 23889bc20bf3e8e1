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

// AuthHandler mengelola request autentikasi dan profil.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// SetupAuthRoutes mendaftarkan endpoint autentikasi di bawah /api/v1/auth.
func (h *AuthHandler) SetupAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)

		secured := authGroup.Group("")
		secured.Use(middleware.AuthMiddleware())
		{
			secured.GET("/profile", h.GetProfile)
			secured.PUT("/profile", h.UpdateProfile)
		}
	}
}

// Register menangani pendaftaran mandiri (mahasiswa/dosen).
func (h *AuthHandler) Register(ctx *gin.Context) {
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

	newUser := model.User{
		Nama:           input.Nama,
		Email:          input.Email,
		Role:           model.Role(input.Role),
		BidangKeahlian: input.BidangKeahlian,
	}
	if input.JurusanID != "" {
		id, err := uuid.Parse(input.JurusanID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format jurusanId salah (harus UUID)", err.Error()))
			return
		}
		newUser.JurusanID = &id
	}
	if input.ProdiID != "" {
		id, err := uuid.Parse(input.ProdiID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format prodiId salah (harus UUID)", err.Error()))
			return
		}
		newUser.ProdiID = &id
	}

	if err := h.authService.Register(&newUser, input.Password); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Registrasi berhasil", nil))
}

// Login memverifikasi kredensial dan mengembalikan JWT.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input login tidak valid", err.Error()))
		return
	}

	user, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Login gagal", err.Error()))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondError(ctx, err)
		return
	}

	data := map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"nama":  user.Nama,
			"email": user.Email,
			"role":  user.Role,
			"label": model.RoleLabel(user.Role),
		},
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Login berhasil", data))
}

func (h *AuthHandler) GetProfile(ctx *gin.Context) {
	caller := currentUser(ctx)
	user, err := h.userService.GetByID(caller.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil profil", user))
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	var input struct {
		Nama           string `json:"nama"`
		BidangKeahlian string `json:"bidangKeahlian"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	caller := currentUser(ctx)
	user, err := h.userService.UpdateProfile(caller.ID, input.Nama, input.BidangKeahlian)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Profil berhasil diperbarui", user))
}
