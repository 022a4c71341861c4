package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.GET("/:id/attachments", h.attachments)
	rg.GET("/:id/attachments/:attachment_id/download", h.download)
	rg.PATCH("/:id/phases/:phase/status", h.updatePhaseStatus)
}

// RegisterPhases attaches the phase catalog route.
func RegisterPhases(rg *gin.RouterGroup) {
	rg.GET("/phases", listPhases)
}
