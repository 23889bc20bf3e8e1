package routes

import (
	"net/http"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/service"
	"research-proposal-backend/middleware"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler menyajikan ringkasan proposal untuk dashboard admin.
type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) SetupReportRoutes(r *gin.Engine) {
	reports := r.Group("/api/v1/reports")
	reports.Use(middleware.AuthMiddleware(), middleware.RequireRoles(model.RoleAdmin))
	{
		reports.GET("/summary", h.Summary)
	}
}

func (h *ReportHandler) Summary(ctx *gin.Context) {
	summary, err := h.reportService.Summary(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil ringkasan proposal", summary))
}
