package routes

import (
	"net/http"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/service"
	"research-proposal-backend/middleware"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
)

// AnnouncementHandler mengelola pengumuman platform.
type AnnouncementHandler struct {
	announcementService service.AnnouncementService
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// SetupAnnouncementRoutes: pengumuman aktif publik, sisanya khusus ADMIN.
func (h *AnnouncementHandler) SetupAnnouncementRoutes(r *gin.Engine) {
	ann := r.Group("/api/v1/announcements")
	{
		ann.GET("/aktif", h.GetActive)

		admin := ann.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(model.RoleAdmin))
		{
			admin.POST("", h.Create)
			admin.GET("", h.GetAll)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

type announcementPayload struct {
	Judul    string `json:"judul"`
	Konten   string `json:"konten"`
	Kategori string `json:"kategori"`
	Status   string `json:"status"`
}

func (h *AnnouncementHandler) Create(ctx *gin.Context) {
	var input announcementPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	a, err := h.announcementService.Create(ctx.Request.Context(), service.AnnouncementInput{
		Judul:    input.Judul,
		Konten:   input.Konten,
		Kategori: input.Kategori,
		Status:   input.Status,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Pengumuman berhasil dibuat", a))
}

func (h *AnnouncementHandler) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input announcementPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	a, err := h.announcementService.Update(ctx.Request.Context(), id, service.AnnouncementInput{
		Judul:    input.Judul,
		Konten:   input.Konten,
		Kategori: input.Kategori,
		Status:   input.Status,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Pengumuman berhasil diperbarui", a))
}

func (h *AnnouncementHandler) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.announcementService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Pengumuman berhasil dihapus", nil))
}

func (h *AnnouncementHandler) GetAll(ctx *gin.Context) {
	list, err := h.announcementService.GetAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil semua pengumuman", list))
}

func (h *AnnouncementHandler) GetActive(ctx *gin.Context) {
	list, err := h.announcementService.GetActive(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil pengumuman aktif", list))
}
