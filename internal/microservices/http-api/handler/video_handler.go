package handler

import (
	"errors"
	"fmt"
	"net/http"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/middleware"
	"videohub/internal/microservices/http-api/service"
	"videohub/internal/storage"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService  service.VideoService
	pageSize      int
	maxUploadSize int64
}

func NewVideoHandler(videoService service.VideoService, pageSize int, maxUploadSize int64) *VideoHandler {
	return &VideoHandler{
		videoService:  videoService,
		pageSize:      pageSize,
		maxUploadSize: maxUploadSize,
	}
}

// RegisterRoutes registers video routes
func (h *VideoHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	videos := router.Group("/videos")
	{
		// Public routes
		videos.GET("", h.List)
		videos.GET("/:id", optionalAuth, h.Get)
		videos.GET("/:id/stream", h.Stream)

		// Protected routes
		videos.POST("", requireAuth, h.Upload)
		videos.DELETE("/:id", requireAuth, h.Delete)
		videos.POST("/:id/vote", requireAuth, h.Vote)
	}
}

// Upload stores a new video with its preview image
// POST /api/v1/videos (multipart/form-data)
func (h *VideoHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	var form dto.UploadVideoForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.videoService.Upload(c.Request.Context(), middleware.CurrentUser(c), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// List returns a page of videos, newest first
// GET /api/v1/videos?page=&page_size=
func (h *VideoHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, pageSize := q.Normalize(h.pageSize)

	videos, err := h.videoService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	video, err := h.videoService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VideoHandler) Vote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counts, err := h.videoService.Vote(c.Request.Context(), middleware.CurrentUser(c), id, req.Vote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Stream serves the video file, honouring a single byte range
// GET /api/v1/videos/:id/stream
func (h *VideoHandler) Stream(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	stream, err := h.videoService.Stream(c.Request.Context(), id, c.GetHeader("Range"))
	if errors.Is(err, storage.ErrUnsatisfiableRange) {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", stream.Size))
		c.JSON(http.StatusRequestedRangeNotSatisfiable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	defer stream.Body.Close()

	status, length := http.StatusOK, stream.Size
	headers := map[string]string{"Accept-Ranges": "bytes"}
	if stream.Range != nil {
		status, length = http.StatusPartialContent, stream.Range.Length()
		headers["Content-Range"] = stream.Range.ContentRange(stream.Size)
	}
	c.DataFromReader(status, length, stream.ContentType, stream.Body, headers)
}
