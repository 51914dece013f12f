package rest

import (
	"fmt"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/musehabit/muse/blob"
)

// PresignedController hands out upload URLs for user-owned blobs. The
// returned path is what the client later stores on its post or profile.
type PresignedController struct {
	Presigner blob.Presigner
}

func (c *PresignedController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Post("/blobs/uploads", combineHandlers(requestAuthorizer, c.serveUploadUrl))
}

func (c *PresignedController) serveUploadUrl(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	body := struct {
		FileName string `json:"fileName"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	ext := strings.ToLower(path.Ext(body.FileName))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unsupported file type")
	}

	blobPath := fmt.Sprintf("%s/%s%s", user.Id, uuid.NewString(), ext)
	uploadUrl, err := c.Presigner.UploadURL(blobPath)
	if err != nil {
		return fmt.Errorf("presign upload: %w", err)
	}
	return ctx.JSON(fiber.Map{
		"path":      blobPath,
		"uploadUrl": uploadUrl,
	})
}
