package http

import (
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/response"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/storage"
	"github.com/parkorbit/parking-spot-backend/internal/spot"
)

const (
	maxImageSize    = 5 << 20 // 5 MiB
	thumbnailWidth  = 1280
	thumbnailHeight = 960
)

type Handler struct {
	service   spot.Service
	store     storage.Storage
	images    *storage.ImageProcessor
	publicURL string
	log       zerolog.Logger
}

func NewHandler(service spot.Service, store storage.Storage, images *storage.ImageProcessor, publicURL string, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		store:     store,
		images:    images,
		publicURL: publicURL,
		log:       log,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateSpotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	sp, err := h.service.Create(c.Request.Context(), spot.CreateRequest{
		Name:                body.Name,
		ParkingType:         body.ParkingType,
		Address:             body.Address.toModel(),
		Latitude:            *body.Latitude,
		Longitude:           *body.Longitude,
		TotalSlots:          body.TotalSlots,
		OperatingHours:      body.OperatingHours,
		Pricing:             body.Pricing.toModel(),
		Amenities:           body.Amenities,
		AllowedVehicleTypes: body.AllowedVehicleTypes,
		SpecialInstructions: body.SpecialInstructions,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, NewSpotResponse(sp))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid spot id"))
		return
	}

	sp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, NewSpotResponse(sp))
}

func (h *Handler) List(c *gin.Context) {
	var q ListSpotsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	spots, total, err := h.service.List(c.Request.Context(), spot.Filter{
		City:        q.City,
		ParkingType: q.ParkingType,
		VehicleType: q.VehicleType,
		Keyword:     q.Keyword,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	items := make([]SpotResponse, len(spots))
	for i, s := range spots {
		items[i] = NewSpotResponse(s)
	}

	response.OK(c, http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) Nearby(c *gin.Context) {
	var q NearbyRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	spots, err := h.service.Nearby(c.Request.Context(), spot.BoundingBox{
		MinLat: *q.MinLat,
		MaxLat: *q.MaxLat,
		MinLng: *q.MinLng,
		MaxLng: *q.MaxLng,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	items := make([]SpotResponse, len(spots))
	for i, s := range spots {
		items[i] = NewSpotResponse(s)
	}

	response.OK(c, http.StatusOK, items)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid spot id"))
		return
	}

	var body UpdateSpotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	req := spot.UpdateRequest{
		Name:                body.Name,
		ParkingType:         body.ParkingType,
		Latitude:            body.Latitude,
		Longitude:           body.Longitude,
		TotalSlots:          body.TotalSlots,
		OperatingHours:      body.OperatingHours,
		Amenities:           body.Amenities,
		AllowedVehicleTypes: body.AllowedVehicleTypes,
		SpecialInstructions: body.SpecialInstructions,
	}
	if body.Address != nil {
		addr := body.Address.toModel()
		req.Address = &addr
	}
	if body.Pricing != nil {
		pricing := body.Pricing.toModel()
		req.Pricing = &pricing
	}

	sp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, NewSpotResponse(sp))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid spot id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}

	// Bookings referencing this spot are not cascaded; they stay behind
	// as orphans.
	h.log.Warn().Str("spot_id", id).Msg("spot deleted; existing bookings are orphaned")

	c.Status(http.StatusNoContent)
}

func (h *Handler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid spot id"))
		return
	}

	// Ensure the spot exists before accepting the file.
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "image file is required"))
		return
	}
	if fileHeader.Size > maxImageSize {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "image is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	defer file.Close()

	resized, err := h.images.GenerateThumbnail(file, thumbnailWidth, thumbnailHeight)
	if err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid image file"))
		return
	}

	relPath := path.Join("spots", fmt.Sprintf("%s.jpg", id))
	if err := h.store.Save(c.Request.Context(), relPath, resized); err != nil {
		response.Error(c, h.log, err)
		return
	}

	url := fmt.Sprintf("%s/uploads/%s", h.publicURL, relPath)
	if err := h.service.SetImageURL(c.Request.Context(), id, url); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"image_url": url})
}
