package usecase

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/ferdian3456/devblog/internal/util"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const replyNotificationTimeout = 30 * time.Second

type replyTemplateData struct {
	RecipientName string
	ReplierName   string
	PostTitle     string
	ReplyContent  string
}

type NotificationUsecase struct {
	UserRepository *repository.UserRepository
	PostRepository *repository.PostRepository
	Log            *zap.Logger
	Config         *koanf.Koanf
	ReplyTemplate  *template.Template
}

func NewNotificationUsecase(userRepository *repository.UserRepository, postRepository *repository.PostRepository, zap *zap.Logger, koanf *koanf.Koanf) *NotificationUsecase {
	return &NotificationUsecase{
		UserRepository: userRepository,
		PostRepository: postRepository,
		Log:            zap,
		Config:         koanf,
		ReplyTemplate:  template.Must(template.ParseFS(util.TemplateFS, "template/reply.html")),
	}
}

// NotifyReply e-mails the parent comment's author in the background.
// It is a no-op when SMTP is not configured.
func (usecase *NotificationUsecase) NotifyReply(parent model.Comment, reply model.Comment) {
	if usecase.Config.String("SMTP_HOST") == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), replyNotificationTimeout)
		defer cancel()

		err := usecase.sendReplyEmail(ctx, parent, reply)
		if err != nil {
			usecase.Log.Warn("failed to send reply notification",
				zap.String("commentId", reply.Id.String()),
				zap.String("parentId", parent.Id.String()),
				zap.Error(err),
			)
		}
	}()
}

func (usecase *NotificationUsecase) sendReplyEmail(ctx context.Context, parent model.Comment, reply model.Comment) error {
	recipientName, recipientEmail, err := usecase.UserRepository.GetUserContact(ctx, parent.AuthorId)
	if err != nil {
		return err
	}

	replierName, _, err := usecase.UserRepository.GetUserContact(ctx, reply.AuthorId)
	if err != nil {
		return err
	}

	post, err := usecase.PostRepository.GetPost(ctx, reply.PostId)
	if err != nil {
		return err
	}

	body, err := usecase.renderReplyEmail(replyTemplateData{
		RecipientName: recipientName,
		ReplierName:   replierName,
		PostTitle:     post.Title,
		ReplyContent:  reply.Content,
	})
	if err != nil {
		return err
	}

	subject := "@" + replierName + " replied to your comment"

	return util.SendEmail(
		usecase.Config.String("SMTP_HOST"),
		usecase.Config.Int("SMTP_PORT"),
		usecase.Config.String("SENDER_NAME"),
		usecase.Config.String("SENDER_EMAIL"),
		usecase.Config.String("SENDER_PASSWORD"),
		recipientEmail,
		subject,
		body,
	)
}

func (usecase *NotificationUsecase) renderReplyEmail(data replyTemplateData) (string, error) {
	var body bytes.Buffer

	err := usecase.ReplyTemplate.Execute(&body, data)
	if err != nil {
		return "", err
	}

	return body.String(), nil
}
