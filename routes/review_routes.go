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

// ReviewHandler mengelola penugasan reviewer dan penilaian proposal.
type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) SetupReviewRoutes(r *gin.Engine) {
	reviews := r.Group("/api/v1/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("", h.Create)
		reviews.GET("", h.List)
		reviews.GET("/proposals", h.Queue)
		reviews.GET("/:id", h.GetDetail)
		reviews.PUT("/:id", h.Update)

		admin := reviews.Group("")
		admin.Use(middleware.RequireRoles(model.RoleAdmin))
		{
			admin.POST("/assign", h.Assign)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

// reviewPayload dipakai create dan update.
type reviewPayload struct {
	ProposalID  string   `json:"proposalId"`
	Skor        *float64 `json:"skor"`
	Catatan     string   `json:"catatan"`
	Rekomendasi string   `json:"rekomendasi" binding:"required"`
}

// Assign menugaskan reviewer ke proposal (khusus ADMIN).
func (h *ReviewHandler) Assign(ctx *gin.Context) {
	var input struct {
		ProposalID string `json:"proposalId" binding:"required"`
		ReviewerID string `json:"reviewerId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	proposalID, err := uuid.Parse(input.ProposalID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format proposalId salah (harus UUID)", err.Error()))
		return
	}
	reviewerID, err := uuid.Parse(input.ReviewerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format reviewerId salah (harus UUID)", err.Error()))
		return
	}

	p, err := h.reviewService.Assign(ctx.Request.Context(), currentUser(ctx), proposalID, reviewerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Reviewer berhasil ditugaskan", p))
}

func (h *ReviewHandler) Create(ctx *gin.Context) {
	var input reviewPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}
	if input.ProposalID == "" {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("proposalId wajib diisi", "validation_error"))
		return
	}
	proposalID, err := uuid.Parse(input.ProposalID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Format proposalId salah (harus UUID)", err.Error()))
		return
	}

	review, err := h.reviewService.Create(ctx.Request.Context(), currentUser(ctx), service.ReviewInput{
		ProposalID:  proposalID,
		Skor:        input.Skor,
		Catatan:     input.Catatan,
		Rekomendasi: model.Rekomendasi(input.Rekomendasi),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Review berhasil disimpan", review))
}

func (h *ReviewHandler) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input reviewPayload
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid", err.Error()))
		return
	}

	review, err := h.reviewService.Update(ctx.Request.Context(), currentUser(ctx), id, service.ReviewInput{
		Skor:        input.Skor,
		Catatan:     input.Catatan,
		Rekomendasi: model.Rekomendasi(input.Rekomendasi),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Review berhasil diperbarui", review))
}

// Delete menghapus review dan mengembalikan proposal ke SUBMITTED.
func (h *ReviewHandler) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(ctx.Request.Context(), currentUser(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Review berhasil dihapus", nil))
}

func (h *ReviewHandler) GetDetail(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	review, err := h.reviewService.GetByID(ctx.Request.Context(), currentUser(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil detail review", review))
}

func (h *ReviewHandler) List(ctx *gin.Context) {
	list, err := h.reviewService.List(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil daftar review", list))
}

// Queue mengembalikan antrian proposal milik reviewer yang login.
func (h *ReviewHandler) Queue(ctx *gin.Context) {
	list, err := h.reviewService.Queue(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil antrian review", list))
}
