package service

import (
	"fmt"
	"log/slog"

	"videohub/internal/mail"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/tasks"
)

// TaskEnqueuer hands work to the background queue without waiting for it.
type TaskEnqueuer interface {
	Enqueue(taskType string, payload any)
}

// Notifier tells users about activity on their videos and comments.
// Implementations are fire-and-forget.
type Notifier interface {
	NotifyNewComment(recipient *models.User, video *models.Video, comment *models.Comment, author *models.User)
}

type emailNotifier struct {
	tasks       TaskEnqueuer
	frontendURL string
	logger      *slog.Logger
}

func NewEmailNotifier(enqueuer TaskEnqueuer, frontendURL string, logger *slog.Logger) Notifier {
	return &emailNotifier{tasks: enqueuer, frontendURL: frontendURL, logger: logger}
}

// NotifyNewComment skips recipients that turned notifications off.
func (n *emailNotifier) NotifyNewComment(recipient *models.User, video *models.Video, comment *models.Comment, author *models.User) {
	if recipient == nil || !recipient.SendMessage {
		n.logger.Debug("comment notification skipped", "comment_id", comment.ID)
		return
	}

	enqueueEmail(n.tasks, recipient.Email, mail.TemplateNewComment, map[string]string{
		"Username":      recipient.Username,
		"CommentAuthor": author.Username,
		"VideoTitle":    video.Title,
		"Comment":       comment.Text,
		"Link":          fmt.Sprintf("%s/videos/%d", n.frontendURL, video.ID),
	})
}

func enqueueEmail(enqueuer TaskEnqueuer, to, template string, data map[string]string) {
	enqueuer.Enqueue(tasks.TypeSendEmail, tasks.EmailPayload{
		To:       to,
		Template: template,
		Data:     data,
	})
}
