package rest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/blob"
)

type CommentController struct {
	Comments  muse.CommentStore
	Posts     muse.PostStore
	Presigner blob.Presigner
}

func (c *CommentController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/posts/:post_id/comments", combineHandlers(requestAuthorizer, c.serveComments))
	app.Post("/posts/:post_id/comments", combineHandlers(requestAuthorizer, c.serveAddComment))
}

func (c *CommentController) serveComments(ctx *fiber.Ctx) error {
	postId := ctx.Params("post_id")
	if postId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no post id")
	}
	if _, err := c.Posts.ById(ctx.Context(), postId); err != nil {
		if errors.Is(err, muse.ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		return fmt.Errorf("post by id: %w", err)
	}

	comments, err := c.Comments.ByPostId(ctx.Context(), postId)
	if err != nil {
		return fmt.Errorf("comments by post id: %w", err)
	}

	type CommentResponse struct {
		CommentId      int64     `json:"comment_id"`
		Content        string    `json:"content"`
		OwnerName      string    `json:"owner_name"`
		OwnerAvatarUrl string    `json:"owner_avatar_url,omitempty"`
		CreatedAt      time.Time `json:"createdAt"`
	}
	responses := make([]CommentResponse, len(comments))
	for i, comment := range comments {
		avatarUrl, err := c.Presigner.DownloadURL(comment.OwnerAvatarPath)
		if err != nil {
			return fmt.Errorf("presign avatar: %w", err)
		}
		responses[i] = CommentResponse{
			CommentId:      comment.Id,
			Content:        comment.Content,
			OwnerName:      comment.OwnerName,
			OwnerAvatarUrl: avatarUrl,
			CreatedAt:      comment.CreatedAt,
		}
	}
	return ctx.JSON(responses)
}

func (c *CommentController) serveAddComment(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	postId := ctx.Params("post_id")
	if postId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no post id")
	}

	body := struct {
		Content string `json:"content"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(body.Content) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "must have content")
	}

	if _, err := c.Posts.ById(ctx.Context(), postId); err != nil {
		if errors.Is(err, muse.ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		return fmt.Errorf("post by id: %w", err)
	}

	if err := c.Comments.Add(ctx.Context(), postId, user.Id, body.Content); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return ctx.SendStatus(fiber.StatusCreated)
}
