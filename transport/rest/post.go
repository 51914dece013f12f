package rest

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/blob"
)

const (
	defaultPostPage  = 1
	defaultPostLimit = 10
)

type PostController struct {
	Posts     muse.PostStore
	Toggle    *muse.SavedItemToggle
	Presigner blob.Presigner
}

func (c *PostController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/posts", combineHandlers(requestAuthorizer, c.servePosts))
	app.Post("/posts", combineHandlers(requestAuthorizer, c.serveCreatePost))
	app.Put("/posts/:post_id/save", combineHandlers(requestAuthorizer, c.serveSavePost))
}

type PostOwnerResponse struct {
	Name              string `json:"name"`
	ProfilePictureUrl string `json:"profile_picture_url"`
}

type PostResponse struct {
	PostId      string            `json:"post_id"`
	Owner       PostOwnerResponse `json:"owner"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	ImageUrl    string            `json:"image_url"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	IsSaved     bool              `json:"isSaved"`
}

func (c *PostController) servePosts(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	page, err := queryInt(ctx, "page", defaultPostPage)
	if err != nil || page < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid page")
	}
	limit, err := queryInt(ctx, "limit", defaultPostLimit)
	if err != nil || limit < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
	}

	listings, err := c.Posts.ListForViewer(ctx.Context(), user.Id, page, limit)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}

	responses, err := mapPostListings(c.Presigner, listings)
	if err != nil {
		return err
	}
	return ctx.JSON(responses)
}

func mapPostListings(presigner blob.Presigner, listings []muse.PostListing) ([]PostResponse, error) {
	responses := make([]PostResponse, len(listings))
	for i, listing := range listings {
		imageUrl, err := presigner.DownloadURL(listing.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("presign post image: %w", err)
		}
		avatarUrl, err := presigner.DownloadURL(listing.OwnerAvatarPath)
		if err != nil {
			return nil, fmt.Errorf("presign owner avatar: %w", err)
		}
		responses[i] = PostResponse{
			PostId: listing.Id,
			Owner: PostOwnerResponse{
				Name:              listing.OwnerName,
				ProfilePictureUrl: avatarUrl,
			},
			Title:       listing.Title,
			Description: listing.Description,
			ImageUrl:    imageUrl,
			CreatedAt:   listing.CreatedAt,
			UpdatedAt:   listing.UpdatedAt,
			IsSaved:     listing.Saved,
		}
	}
	return responses, nil
}

func (c *PostController) serveCreatePost(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	body := struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ImagePath   string `json:"imagePath"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing title")
	}

	err := c.Posts.Create(ctx.Context(), muse.Post{
		Id:          uuid.New().String(),
		OwnerId:     user.Id,
		Title:       body.Title,
		Description: body.Description,
		ImagePath:   body.ImagePath,
	})
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return ctx.SendStatus(fiber.StatusCreated)
}

func (c *PostController) serveSavePost(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	postId := ctx.Params("post_id")
	if postId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no post id")
	}

	body := struct {
		Save *bool `json:"save"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Save == nil {
		return fiber.NewError(fiber.StatusBadRequest, "must have save")
	}

	// Item existence is verified before any relation row is touched.
	if _, err := c.Posts.ById(ctx.Context(), postId); err != nil {
		if errors.Is(err, muse.ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		return fmt.Errorf("post by id: %w", err)
	}

	result, err := c.Toggle.Toggle(ctx.Context(), user.Id, postId, *body.Save)
	if err != nil {
		return fmt.Errorf("toggle saved post: %w", err)
	}
	return ctx.JSON(saveResponse(result.Outcome, "Post"))
}

func queryInt(ctx *fiber.Ctx, key string, fallback int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
