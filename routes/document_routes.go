package routes

import (
	"bytes"
	"net/http"

	"research-proposal-backend/app/service"
	"research-proposal-backend/middleware"
	"research-proposal-backend/utils"

	"github.com/gin-gonic/gin"
)

// DocumentHandler melayani unduh dan hapus dokumen per ID.
// Unggah dan daftar dokumen ada di bawah /proposals/:id/documents.
type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) SetupDocumentRoutes(r *gin.Engine) {
	docs := r.Group("/api/v1/documents")
	docs.Use(middleware.AuthMiddleware())
	{
		docs.GET("/:id", h.Download)
		docs.DELETE("/:id", h.Delete)
	}
}

func (h *DocumentHandler) Download(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	// buffer dulu supaya error dari file store masih bisa jadi respons JSON
	var buf bytes.Buffer
	doc, err := h.documentService.Download(ctx.Request.Context(), currentUser(ctx), id, &buf)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+doc.Nama+`"`)
	ctx.Data(http.StatusOK, "application/octet-stream", buf.Bytes())
}

func (h *DocumentHandler) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.documentService.Delete(ctx.Request.Context(), currentUser(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Dokumen berhasil dihapus", nil))
}
