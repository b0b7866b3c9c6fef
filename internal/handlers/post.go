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

type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// List godoc
// @Summary      List cleanup posts, newest first
// @Tags         posts
// @Produce      json
// @Success      200  {array}   dto.PostResponse
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	list, err := h.posts.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	claims := auth.ClaimsFromContext(c)
	out := make([]dto.PostResponse, 0, len(list))
	for _, p := range list {
		out = append(out, postToResponse(p, claims))
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary      Share a cleanup post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreatePostRequest  true  "Post"
// @Success      201   {object}  dto.PostResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	claims := auth.ClaimsFromContext(c)
	p, err := h.posts.Create(c.Request.Context(),
		service.Author{ID: claims.UserID, Username: claims.Username},
		service.PostInput{
			Location:       req.Location,
			Date:           req.Date,
			ImageURL:       req.ImageURL,
			Caption:        req.Caption,
			TrashCollected: req.TrashCollected,
		})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, postToResponse(p, claims))
}

// Get godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        postId  path      string  true  "Post ID"
// @Success      200     {object}  dto.PostResponse
// @Failure      404     {object}  map[string]string
// @Router       /posts/{postId} [get]
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("postId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(p, auth.ClaimsFromContext(c)))
}

// Upvote godoc
// @Summary      Upvote a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string  true  "Post ID"
// @Success      200     {object}  dto.PostResponse
// @Failure      404     {object}  map[string]string
// @Router       /posts/{postId}/upvote [post]
func (h *PostHandler) Upvote(c *gin.Context) {
	p, err := h.posts.Upvote(c.Request.Context(), c.Param("postId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(p, auth.ClaimsFromContext(c)))
}

func postToResponse(p dom.Post, claims *auth.Claims) dto.PostResponse {
	out := dto.PostResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Username:       p.Username,
		Location:       p.Location,
		Date:           p.Date,
		ImageURL:       p.ImageURL,
		Caption:        p.Caption,
		TrashCollected: p.TrashCollected,
		Upvotes:        p.Upvotes,
		Timestamp:      p.CreatedAt,
	}
	if claims != nil {
		mine := claims.UserID == p.UserID
		out.IsMine = &mine
	}
	return out
}
