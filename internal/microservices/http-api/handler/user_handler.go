package handler

import (
	"net/http"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/middleware"
	"videohub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   service.UserService
	maxAvatarSize int64
}

func NewUserHandler(userService service.UserService, maxAvatarSize int64) *UserHandler {
	return &UserHandler{userService: userService, maxAvatarSize: maxAvatarSize}
}

// RegisterRoutes registers profile, social graph and channel routes
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		me := users.Group("/me", requireAuth)
		me.GET("", h.Me)
		me.PUT("", h.UpdateMe)
		me.PUT("/password", h.ChangePassword)
		me.POST("/avatar", h.UpdateAvatar)
		me.GET("/subscriptions", h.Subscriptions)
		me.GET("/history", h.History)
		me.POST("/export", h.Export)
		me.POST("/two-auth/toggle", h.ToggleTwoStep)

		users.POST("/:id/follow", requireAuth, h.Follow)
		users.DELETE("/:id/follow", requireAuth, h.Unfollow)
		users.GET("/:id/channel", optionalAuth, h.Channel)
		users.GET("/:id/videos", h.ChannelVideos)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, h.userService.Profile(middleware.CurrentUser(c)))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "password updated"})
}

func (h *UserHandler) ToggleTwoStep(c *gin.Context) {
	resp, err := h.userService.ToggleTwoStep(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateAvatar accepts a png or jpeg under the "avatar" form field
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAvatarSize)

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	profile, err := h.userService.UpdateAvatar(c.Request.Context(), middleware.CurrentUser(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Follow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Follow(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "following"})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Unfollow(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "unfollowed"})
}

func (h *UserHandler) Channel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	channel, err := h.userService.Channel(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}

func (h *UserHandler) ChannelVideos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	videos, err := h.userService.ChannelVideos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	subs, err := h.userService.Subscriptions(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *UserHandler) History(c *gin.Context) {
	history, err := h.userService.History(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// Export queues a data export; the link arrives by email
func (h *UserHandler) Export(c *gin.Context) {
	h.userService.RequestExport(middleware.CurrentUser(c))
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: "export requested, the download link will be emailed"})
}
