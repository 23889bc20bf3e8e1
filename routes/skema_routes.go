package routes

import (
	"net/http"
	"time"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/service"
	"research-proposal-backend/middleware"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
)

// SkemaHandler mengelola skema pendanaan.
type SkemaHandler struct {
	skemaService service.SkemaService
}

func NewSkemaHandler(skemaService service.SkemaService) *SkemaHandler {
	return &SkemaHandler{skemaService: skemaService}
}

// SetupSkemaRoutes: daftar/detail bisa diakses semua user login,
// mutasi hanya ADMIN.
func (h *SkemaHandler) SetupSkemaRoutes(r *gin.Engine) {
	skema := r.Group("/api/v1/skema")
	skema.Use(middleware.AuthMiddleware())
	{
		skema.GET("", h.GetAll)
		skema.GET("/aktif", h.GetActive)
		skema.GET("/:id", h.GetDetail)

		admin := skema.Group("")
		admin.Use(middleware.RequireRoles(model.RoleAdmin))
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

// skemaPayload dipakai untuk create dan update (update: field kosong berarti
// tidak diubah).
type skemaPayload struct {
	Kode         string  `json:"kode"`
	Nama         string  `json:"nama"`
	Kategori     string  `json:"kategori"`
	DanaMin      float64 `json:"danaMin"`
	DanaMax      float64 `json:"danaMax"`
	BatasAnggota int     `json:"batasAnggota"`
	TanggalBuka  string  `json:"tanggalBuka"`  // format 2006-01-02
	TanggalTutup string  `json:"tanggalTutup"` // format 2006-01-02
}

func parseTanggal(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (h *SkemaHandler) Create(ctx *gin.Context) {
	var input skemaPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	buka, err := parseTanggal(input.TanggalBuka)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format tanggalBuka salah (YYYY-MM-DD)", err.Error()))
		return
	}
	tutup, err := parseTanggal(input.TanggalTutup)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format tanggalTutup salah (YYYY-MM-DD)", err.Error()))
		return
	}

	skema, err := h.skemaService.Create(ctx.Request.Context(), service.CreateSkemaInput{
		Kode:         input.Kode,
		Nama:         input.Nama,
		Kategori:     model.SkemaKategori(input.Kategori),
		DanaMin:      input.DanaMin,
		DanaMax:      input.DanaMax,
		BatasAnggota: input.BatasAnggota,
		TanggalBuka:  buka,
		TanggalTutup: tutup,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Skema berhasil dibuat", skema))
}

func (h *SkemaHandler) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input struct {
		Kode         *string  `json:"kode"`
		Nama         *string  `json:"nama"`
		Kategori     *string  `json:"kategori"`
		DanaMin      *float64 `json:"danaMin"`
		DanaMax      *float64 `json:"danaMax"`
		BatasAnggota *int     `json:"batasAnggota"`
		TanggalBuka  *string  `json:"tanggalBuka"`
		TanggalTutup *string  `json:"tanggalTutup"`
		Status       *string  `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	upd := service.UpdateSkemaInput{
		Kode:         input.Kode,
		Nama:         input.Nama,
		DanaMin:      input.DanaMin,
		DanaMax:      input.DanaMax,
		BatasAnggota: input.BatasAnggota,
	}
	if input.Kategori != nil {
		k := model.SkemaKategori(*input.Kategori)
		upd.Kategori = &k
	}
	if input.Status != nil {
		s := model.SkemaStatus(*input.Status)
		upd.Status = &s
	}
	if input.TanggalBuka != nil {
		t, err := parseTanggal(*input.TanggalBuka)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format tanggalBuka salah (YYYY-MM-DD)", err.Error()))
			return
		}
		upd.TanggalBuka = &t
	}
	if input.TanggalTutup != nil {
		t, err := parseTanggal(*input.TanggalTutup)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format tanggalTutup salah (YYYY-MM-DD)", err.Error()))
			return
		}
		upd.TanggalTutup = &t
	}

	skema, err := h.skemaService.Update(ctx.Request.Context(), id, upd)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Skema berhasil diperbarui", skema))
}

func (h *SkemaHandler) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.skemaService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Skema berhasil dihapus", nil))
}

func (h *SkemaHandler) GetAll(ctx *gin.Context) {
	list, err := h.skemaService.GetAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil daftar skema", list))
}

// GetActive mengembalikan skema yang sedang dibuka (filter kelayakan
// pembuatan proposal).
func (h *SkemaHandler) GetActive(ctx *gin.Context) {
	list, err := h.skemaService.GetActive(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil skema aktif", list))
}

func (h *SkemaHandler) GetDetail(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	skema, err := h.skemaService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil detail skema", skema))
}
