package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/colinruark1/ocean-cleaning/internal/auth"
	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/dto"
	"github.com/colinruark1/ocean-cleaning/internal/service"
)

type EventHandler struct {
	events *service.EventService
	logger *slog.Logger
}

func NewEventHandler(events *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// List godoc
// @Summary      List cleanup events
// @Description  Ordered by date. lat, lon and radius_km together restrict to events within radius_km kilometers.
// @Tags         events
// @Produce      json
// @Param        organizer_id  query     string  false  "Organizer user ID"
// @Param        lat           query     number  false  "Latitude"
// @Param        lon           query     number  false  "Longitude"
// @Param        radius_km     query     number  false  "Radius in kilometers"
// @Success      200           {array}   dto.EventResponse
// @Failure      400           {object}  map[string]string
// @Failure      500           {object}  map[string]string
// @Router       /events [get]
func (h *EventHandler) List(c *gin.Context) {
	filter := dom.EventFilter{OrganizerID: c.Query("organizer_id")}
	near, ok := parseGeoRadius(c)
	if !ok {
		return
	}
	filter.Near = near

	list, err := h.events.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	claims := auth.ClaimsFromContext(c)
	out := make([]dto.EventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, eventToResponse(e, claims))
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary      Create a cleanup event
// @Description  The caller becomes the organizer and first participant.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateEventRequest  true  "Event"
// @Success      201   {object}  dto.EventResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := auth.ClaimsFromContext(c)
	e, err := h.events.Create(c.Request.Context(),
		service.Organizer{ID: claims.UserID, Username: claims.Username},
		service.EventInput{
			Title:           req.Title,
			Location:        req.Location,
			Latitude:        req.Coordinates.Lat,
			Longitude:       req.Coordinates.Lng,
			Date:            req.Date,
			Time:            req.Time,
			MaxParticipants: req.MaxParticipants,
			Description:     req.Description,
			Difficulty:      req.Difficulty,
			ImageURL:        req.ImageURL,
		})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, eventToResponse(e, claims))
}

// Get godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventId  path      string  true  "Event ID"
// @Success      200      {object}  dto.EventResponse
// @Failure      404      {object}  map[string]string
// @Router       /events/{eventId} [get]
func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.events.Get(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(e, auth.ClaimsFromContext(c)))
}

// Join godoc
// @Summary      Join an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      string  true  "Event ID"
// @Success      200      {object}  dto.EventResponse
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /events/{eventId}/join [post]
func (h *EventHandler) Join(c *gin.Context) {
	e, err := h.events.Join(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(e, auth.ClaimsFromContext(c)))
}

// Leave godoc
// @Summary      Leave an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      string  true  "Event ID"
// @Success      200      {object}  dto.EventResponse
// @Failure      404      {object}  map[string]string
// @Router       /events/{eventId}/leave [post]
func (h *EventHandler) Leave(c *gin.Context) {
	e, err := h.events.Leave(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(e, auth.ClaimsFromContext(c)))
}

// SetParticipants godoc
// @Summary      Set the participant count
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      string                      true  "Event ID"
// @Param        body     body      dto.SetParticipantsRequest  true  "Count"
// @Success      200      {object}  dto.EventResponse
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /events/{eventId}/participants [put]
func (h *EventHandler) SetParticipants(c *gin.Context) {
	var req dto.SetParticipantsRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := auth.ClaimsFromContext(c)
	e, err := h.events.SetParticipants(c.Request.Context(), claims.UserID, c.Param("eventId"), *req.Participants)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(e, claims))
}

// Delete godoc
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      string  true  "Event ID"
// @Success      200      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /events/{eventId} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	if err := h.events.Delete(c.Request.Context(), claims.UserID, c.Param("eventId")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// parseGeoRadius reads lat, lon and radius_km. The filter applies only when all three are present.
func parseGeoRadius(c *gin.Context) (*dom.GeoRadius, bool) {
	lat, lon, radius := c.Query("lat"), c.Query("lon"), c.Query("radius_km")
	if lat == "" || lon == "" || radius == "" {
		return nil, true
	}
	var g dom.GeoRadius
	var err error
	if g.Latitude, err = strconv.ParseFloat(lat, 64); err != nil || g.Latitude < -90 || g.Latitude > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number between -90 and 90"})
		return nil, false
	}
	if g.Longitude, err = strconv.ParseFloat(lon, 64); err != nil || g.Longitude < -180 || g.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon must be a number between -180 and 180"})
		return nil, false
	}
	if g.RadiusKM, err = strconv.ParseFloat(radius, 64); err != nil || g.RadiusKM < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "radius_km must be a non-negative number"})
		return nil, false
	}
	return &g, true
}

func eventToResponse(e dom.Event, claims *auth.Claims) dto.EventResponse {
	out := dto.EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Location:        e.Location,
		Coordinates:     dto.Coordinates{Lat: e.Latitude, Lng: e.Longitude},
		Date:            e.Date,
		Time:            e.Time,
		Participants:    e.Participants,
		MaxParticipants: e.MaxParticipants,
		Description:     e.Description,
		Organizer:       e.Organizer,
		OrganizerID:     e.OrganizerID,
		Difficulty:      e.Difficulty,
		ImageURL:        e.ImageURL,
		Timestamp:       e.CreatedAt,
	}
	if claims != nil {
		mine := claims.UserID == e.OrganizerID
		out.IsOrganizer = &mine
	}
	return out
}
