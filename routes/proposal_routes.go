package routes

import (
	"net/http"

	"research-proposal-backend/app/service"
	"research-proposal-backend/middleware"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProposalHandler mengelola lifecycle proposal dan anggota timnya.
type ProposalHandler struct {
	proposalService service.ProposalService
	documentService service.DocumentService
}

func NewProposalHandler(proposalService service.ProposalService, documentService service.DocumentService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService, documentService: documentService}
}

// SetupProposalRoutes mendaftarkan endpoint proposal. Semua wajib login;
// otorisasi per-record dicek di service lewat access policy.
func (h *ProposalHandler) SetupProposalRoutes(r *gin.Engine) {
	proposals := r.Group("/api/v1/proposals")
	proposals.Use(middleware.AuthMiddleware())
	{
		proposals.POST("", h.Create)
		proposals.GET("", h.List)
		proposals.GET("/:id", h.GetDetail)
		proposals.PUT("/:id", h.Update)
		proposals.DELETE("/:id", h.Delete)
		proposals.POST("/:id/submit", h.Submit)

		proposals.POST("/:id/members", h.AddMember)
		proposals.DELETE("/:id/members/:userId", h.RemoveMember)

		proposals.POST("/:id/documents", h.UploadDocument)
		proposals.GET("/:id/documents", h.ListDocuments)
	}
}

func (h *ProposalHandler) Create(ctx *gin.Context) {
	var input struct {
		Judul         string  `json:"judul" binding:"required"`
		Abstrak       string  `json:"abstrak"`
		KataKunci     string  `json:"kataKunci"`
		SkemaID       string  `json:"skemaId" binding:"required"`
		Tahun         int     `json:"tahun"`
		DanaDiusulkan float64 `json:"danaDiusulkan"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	skemaID, err := uuid.Parse(input.SkemaID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format skemaId salah (harus UUID)", err.Error()))
		return
	}

	p, err := h.proposalService.Create(ctx.Request.Context(), currentUser(ctx), service.CreateProposalInput{
		Judul:         input.Judul,
		Abstrak:       input.Abstrak,
		KataKunci:     input.KataKunci,
		SkemaID:       skemaID,
		Tahun:         input.Tahun,
		DanaDiusulkan: input.DanaDiusulkan,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Proposal berhasil dibuat", p))
}

func (h *ProposalHandler) List(ctx *gin.Context) {
	list, err := h.proposalService.List(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil daftar proposal", list))
}

func (h *ProposalHandler) GetDetail(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	p, err := h.proposalService.GetByID(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil detail proposal", p))
}

func (h *ProposalHandler) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input struct {
		Judul         *string  `json:"judul"`
		Abstrak       *string  `json:"abstrak"`
		KataKunci     *string  `json:"kataKunci"`
		Tahun         *int     `json:"tahun"`
		DanaDiusulkan *float64 `json:"danaDiusulkan"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	p, err := h.proposalService.Update(ctx.Request.Context(), currentUser(ctx), id, service.UpdateProposalInput{
		Judul:         input.Judul,
		Abstrak:       input.Abstrak,
		KataKunci:     input.KataKunci,
		Tahun:         input.Tahun,
		DanaDiusulkan: input.DanaDiusulkan,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Proposal berhasil diperbarui", p))
}

func (h *ProposalHandler) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.proposalService.Delete(ctx.Request.Context(), currentUser(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Proposal berhasil dihapus", nil))
}

// Submit mengajukan proposal DRAFT.
func (h *ProposalHandler) Submit(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	p, err := h.proposalService.Submit(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Proposal berhasil diajukan", p))
}

func (h *ProposalHandler) AddMember(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format userId salah (harus UUID)", err.Error()))
		return
	}

	if err := h.proposalService.AddMember(ctx.Request.Context(), currentUser(ctx), id, userID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Anggota berhasil ditambahkan", nil))
}

func (h *ProposalHandler) RemoveMember(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := h.proposalService.RemoveMember(ctx.Request.Context(), currentUser(ctx), id, userID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Anggota berhasil dikeluarkan", nil))
}

// UploadDocument menerima multipart form dengan field "file".
func (h *ProposalHandler) UploadDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Berkas wajib dilampirkan di field 'file'", err.Error()))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer f.Close()

	doc, err := h.documentService.Upload(ctx.Request.Context(), currentUser(ctx), id, fileHeader.Filename, f)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Dokumen berhasil diunggah", doc))
}

func (h *ProposalHandler) ListDocuments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	docs, err := h.documentService.ListByProposal(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil dokumen proposal", docs))
}
