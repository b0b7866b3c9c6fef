package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colinruark1/ocean-cleaning/internal/auth"
	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/dto"
	"github.com/colinruark1/ocean-cleaning/internal/service"
)

type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Me godoc
// @Summary      Current user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	p, err := h.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(p, true))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := auth.ClaimsFromContext(c)
	u, err := h.users.Update(c.Request.Context(), claims.UserID, dom.UserPatch{
		Username:          req.Username,
		DisplayName:       req.DisplayName,
		Bio:               req.Bio,
		Location:          req.Location,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// GetByID godoc
// @Summary      Public profile of a user
// @Tags         users
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  dto.ProfileResponse
// @Failure      404     {object}  map[string]string
// @Router       /users/{userId} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	p, err := h.users.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(p, false))
}

func profileToResponse(p service.Profile, withEmail bool) dto.ProfileResponse {
	out := dto.ProfileResponse{
		UserID:            p.User.ID,
		Username:          p.User.Username,
		DisplayName:       p.User.DisplayName,
		Bio:               p.User.Bio,
		Location:          p.User.Location,
		ProfilePictureURL: p.User.ProfilePictureURL,
		EventsOrganized:   p.EventsOrganized,
		CreatedAt:         p.User.CreatedAt,
	}
	if withEmail {
		out.Email = p.User.Email
	}
	return out
}
