package catalog

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

// ListArts is the public listing: approved art only.
func (h *Handler) ListArts(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	approved := true
	f.IsApproved = &approved

	arts, err := h.service.ListArts(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"arts": arts})
}

func (h *Handler) GetArt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	art, err := h.service.GetApprovedArt(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"art": art})
}

func (h *Handler) ListByCountryAndType(c *gin.Context) {
	countryID, ok := parseID(c, "countryId")
	if !ok {
		return
	}
	artTypeID, ok := parseID(c, "categoryId")
	if !ok {
		return
	}

	arts, err := h.service.ListApprovedArtsByCountryAndType(c.Request.Context(), countryID, artTypeID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"arts": arts})
}

func (h *Handler) ListCountries(c *gin.Context) {
	countries, err := h.service.ListCountries(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"countries": countries})
}

func (h *Handler) ListArtTypes(c *gin.Context) {
	types, err := h.service.ListArtTypes(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"art_types": types})
}

// ListMyArts includes the caller's unapproved art.
func (h *Handler) ListMyArts(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	arts, err := h.service.ListArts(c.Request.Context(), Filter{OwnerID: &userID})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"arts": arts})
}

func (h *Handler) CreateArt(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req CreateArtInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	art, err := h.service.CreateArt(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"art": art})
}

func (h *Handler) UpdateArt(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateArtInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	art, err := h.service.UpdateArt(c.Request.Context(), id, userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"art": art})
}

func (h *Handler) DeleteArt(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteArt(c.Request.Context(), id, userID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AdminListArts accepts ?is_approved=true|false on top of the public filters.
func (h *Handler) AdminListArts(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}
	if s := c.Query("is_approved"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_approved must be a boolean")
			return
		}
		f.IsApproved = &v
	}

	arts, err := h.service.ListArts(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"arts": arts})
}

func (h *Handler) AdminGetArt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	art, err := h.service.GetArt(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"art": art})
}

func (h *Handler) ApproveArt(c *gin.Context) {
	adminID := c.GetInt64("user_id")
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	art, err := h.service.ApproveArt(c.Request.Context(), id, adminID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"art": art})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid "+param)
		return 0, false
	}
	return id, true
}

func parseFilter(c *gin.Context) (Filter, bool) {
	var f Filter
	for key, dst := range map[string]**int64{"country_id": &f.CountryID, "art_type_id": &f.ArtTypeID} {
		s := c.Query(key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", key+" must be an integer")
			return Filter{}, false
		}
		*dst = &v
	}
	return f, true
}
