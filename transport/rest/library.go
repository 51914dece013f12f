package rest

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/blob"
)

type LibraryController struct {
	Libraries muse.LibraryStore
	Toggle    *muse.SavedItemToggle
	Presigner blob.Presigner
}

func (c *LibraryController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/libraries", combineHandlers(requestAuthorizer, c.serveLibraries))
	app.Put("/libraries/:library_id/save", combineHandlers(requestAuthorizer, c.serveSaveLibrary))
}

func (c *LibraryController) serveLibraries(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	listings, err := c.Libraries.ListForViewer(ctx.Context(), user.Id)
	if err != nil {
		return fmt.Errorf("list libraries: %w", err)
	}

	type LibraryResponse struct {
		LibraryId   string    `json:"library_id"`
		Description string    `json:"description,omitempty"`
		Link        string    `json:"link"`
		ImageUrl    string    `json:"image_url"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
		IsSaved     bool      `json:"isSaved"`
	}
	responses := make([]LibraryResponse, len(listings))
	for i, listing := range listings {
		imageUrl, err := c.Presigner.DownloadURL(listing.ImagePath)
		if err != nil {
			return fmt.Errorf("presign library image: %w", err)
		}
		responses[i] = LibraryResponse{
			LibraryId:   listing.Id,
			Description: listing.Description,
			Link:        listing.Link,
			ImageUrl:    imageUrl,
			CreatedAt:   listing.CreatedAt,
			UpdatedAt:   listing.UpdatedAt,
			IsSaved:     listing.Saved,
		}
	}
	return ctx.JSON(responses)
}

func (c *LibraryController) serveSaveLibrary(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	libraryId := ctx.Params("library_id")
	if libraryId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no library id")
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

	if _, err := c.Libraries.ById(ctx.Context(), libraryId); err != nil {
		if errors.Is(err, muse.ErrLibraryNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "library not found")
		}
		return fmt.Errorf("library by id: %w", err)
	}

	result, err := c.Toggle.Toggle(ctx.Context(), user.Id, libraryId, *body.Save)
	if err != nil {
		return fmt.Errorf("toggle saved library: %w", err)
	}
	return ctx.JSON(saveResponse(result.Outcome, "Library"))
}
