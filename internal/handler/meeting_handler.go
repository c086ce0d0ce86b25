package handler

import (
	"net/http"
	"strconv"

	"meetings-api/internal/services"
	"meetings-api/internal/transport/httpdto"
	apperrors "meetings-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	service *services.MeetingService
}

func NewMeetingHandler(service *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{service: service}
}

func (h *MeetingHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToMeetingDTOs(items))
}

func (h *MeetingHandler) Create(c *gin.Context) {
	caller, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		writeError(c, apperrors.ErrUnauthorized)
		return
	}

	var req httpdto.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller, toMeetingInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.ToMeetingDTO(created))
}

func (h *MeetingHandler) Get(c *gin.Context) {
	id, ok := meetingID(c)
	if !ok {
		writeError(c, apperrors.ErrNotFound)
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToMeetingDTO(m))
}

// Update serves PUT (full) and PATCH (partial).
func (h *MeetingHandler) Update(c *gin.Context) {
	caller, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		writeError(c, apperrors.ErrUnauthorized)
		return
	}
	id, ok := meetingID(c)
	if !ok {
		writeError(c, apperrors.ErrNotFound)
		return
	}

	var req httpdto.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	partial := c.Request.Method == http.MethodPatch
	updated, err := h.service.Update(c.Request.Context(), caller, id, toMeetingInput(req), partial)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ToMeetingDTO(updated))
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	caller, ok := services.UserFromContext(c.Request.Context())
	if !ok {
		writeError(c, apperrors.ErrUnauthorized)
		return
	}
	id, ok := meetingID(c)
	if !ok {
		writeError(c, apperrors.ErrNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// meetingID reads the :id path segment. Anything but a positive integer is
// reported as not found.
func meetingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func toMeetingInput(req httpdto.MeetingRequest) services.MeetingInput {
	return services.MeetingInput{
		Agenda:      req.Agenda,
		Description: req.Description,
		Status:      req.Status,
		Date:        req.Date,
		StartTime:   req.StartTime,
		MeetingURL:  req.MeetingURL,
	}
}
