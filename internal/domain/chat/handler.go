package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artnexus/internal/domain/auth"
	"artnexus/internal/pkg/response"
)

// Handler handles HTTP requests for the chat domain
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// ---- Collaboration thread endpoints ----

func (h *Handler) SendInCollaboration(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	collabID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "body is required")
		return
	}

	msg, err := h.service.SendInCollaboration(c.Request.Context(), userID, collabID, req.Body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) GetCollaborationThread(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	collabID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	view, err := h.service.GetCollaborationThread(c.Request.Context(), userID, collabID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// ---- Admin thread endpoints ----

// SendToAdmin posts into the caller's own admin channel.
func (h *Handler) SendToAdmin(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "body is required")
		return
	}

	msg, err := h.service.SendToAdmin(c.Request.Context(), userID, req.Body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) GetMyAdminThread(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	limit, offset := pagination(c)

	id := auth.Identity{UserID: userID, Role: auth.Role(c.GetString("role"))}
	view, err := h.service.GetAdminThread(c.Request.Context(), id, userID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ListAdminThreads(c *gin.Context) {
	threads, err := h.service.ListAdminThreads(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"threads": threads})
}

func (h *Handler) GetAdminThread(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	artisteID, ok := parseInt64Param(c, "artisteId")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	id := auth.Identity{UserID: userID, Role: auth.Role(c.GetString("role"))}
	view, err := h.service.GetAdminThread(c.Request.Context(), id, artisteID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ReplyToArtiste(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	artisteID, ok := parseInt64Param(c, "artisteId")
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "body is required")
		return
	}

	msg, err := h.service.ReplyToArtiste(c.Request.Context(), userID, artisteID, req.Body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

// ---- helpers ----

func mustUserID(c *gin.Context) int64 {
	id := c.GetInt64("user_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	return id
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return 0, false
	}
	return v, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}
