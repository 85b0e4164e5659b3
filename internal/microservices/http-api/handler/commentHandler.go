package handler

import (
	"net/http"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/middleware"
	"videohub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	router.GET("/videos/:id/comments", h.ListByVideo)

	comments := router.Group("/comments")
	{
		comments.POST("", requireAuth, h.Create)
		comments.GET("/:id/replies", h.Replies)
	}
}

// Create adds a root comment or a reply
// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByVideo returns the comment forest of a video
// GET /api/v1/videos/:id/comments
func (h *CommentHandler) ListByVideo(c *gin.Context) {
	videoID, ok := paramID(c, "id")
	if !ok {
		return
	}

	tree, err := h.commentService.GetComments(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Replies returns the direct replies of a comment
// GET /api/v1/comments/:id/replies
func (h *CommentHandler) Replies(c *gin.Context) {
	commentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	replies, err := h.commentService.GetReplies(c.Request.Context(), commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, replies)
}
