package purchase

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artnexus/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) BuyArt(c *gin.Context) {
	buyerID := c.GetInt64("user_id")
	if buyerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	artID, ok := parseID(c, "artId")
	if !ok {
		return
	}

	p, err := h.service.BuyArt(c.Request.Context(), buyerID, artID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"purchase": p})
}

func (h *Handler) GetPurchasedArt(c *gin.Context) {
	buyerID := c.GetInt64("user_id")
	artID, ok := parseID(c, "artId")
	if !ok {
		return
	}

	p, err := h.service.GetPurchasedArt(c.Request.Context(), buyerID, artID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purchase": p})
}

func (h *Handler) ListMyPurchases(c *gin.Context) {
	buyerID := c.GetInt64("user_id")
	if buyerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	list, err := h.service.ListMyPurchases(c.Request.Context(), buyerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purchases": list})
}

// ListPurchases is the admin queue; ?status=pending narrows it.
func (h *Handler) ListPurchases(c *gin.Context) {
	var status *Status
	if s := c.Query("status"); s != "" {
		st := Status(s)
		status = &st
	}

	list, err := h.service.ListPurchases(c.Request.Context(), status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purchases": list})
}

func (h *Handler) GetPurchase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purchase": p})
}

func (h *Handler) ApprovePurchase(c *gin.Context) {
	adminID := c.GetInt64("user_id")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.ApprovePurchase(c.Request.Context(), id, adminID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purchase": p})
}

func (h *Handler) RejectPurchase(c *gin.Context) {
	adminID := c.GetInt64("user_id")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.RejectPurchase(c.Request.Context(), id, adminID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purchase": p})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid "+param)
		return 0, false
	}
	return id, true
}
