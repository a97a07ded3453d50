package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createExport(c *gin.Context) {
	export, err := h.exports.Export(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "export": exportToResponse(*export)})
}

func (h *Handler) listExports(c *gin.Context) {
	exports, err := h.exports.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ExportResponse, len(exports))
	for i := range exports {
		resp[i] = exportToResponse(exports[i])
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "exports": resp})
}

func (h *Handler) exportURL(c *gin.Context) {
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		fail(c, http.StatusBadRequest, "Export key is required")
		return
	}

	url, err := h.exports.DownloadURL(c.Request.Context(), currentUser(c).ID, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

func (h *Handler) deleteExport(c *gin.Context) {
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		fail(c, http.StatusBadRequest, "Export key is required")
		return
	}

	if err := h.exports.Delete(c.Request.Context(), currentUser(c).ID, key); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Export deleted successfully"})
}
