package rest

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/blob"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct {
	Users     muse.UserStore
	Interests muse.InterestStore
	Posts     muse.PostStore
	Exercises muse.UserExerciseStore
	Streak    muse.StreakUpdater
	Stats     muse.StatisticsProvider
	Presigner blob.Presigner
}

func (c *UserController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Post("/users", c.serveRegister)
	app.Put("/users/me/interests", combineHandlers(requestAuthorizer, c.serveUpdateInterests))
	app.Get("/users/me/profile", combineHandlers(requestAuthorizer, c.serveProfile))
	app.Patch("/users/me/profile", combineHandlers(requestAuthorizer, c.serveUpdateProfile))
	app.Get("/users/me/streak", combineHandlers(requestAuthorizer, c.serveStreak))
	app.Get("/users/me/statistics", combineHandlers(requestAuthorizer, c.serveStatistics))
}

func (c *UserController) serveRegister(ctx *fiber.Ctx) error {
	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing name, email or password")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := c.Users.Register(ctx.Context(), body.Name, body.Email, string(passwordHash))
	if err != nil {
		if errors.Is(err, muse.ErrEmailTaken) {
			return fiber.NewError(fiber.StatusConflict, "user already exists")
		}
		return fmt.Errorf("register user: %w", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(map[string]muse.UserId{"userId": user.Id})
}

func (c *UserController) serveUpdateInterests(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	body := struct {
		Interest []string `json:"interest"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := muse.ValidateInterestPick(body.Interest); err != nil {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("exactly %d distinct interests are required", muse.RequiredInterests))
	}

	if _, err := c.Interests.ByIds(ctx.Context(), body.Interest); err != nil {
		if errors.Is(err, muse.ErrInterestNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "one or more interests not found")
		}
		return fmt.Errorf("interests by ids: %w", err)
	}

	if err := c.Interests.ReplaceForUser(ctx.Context(), user.Id, body.Interest); err != nil {
		return fmt.Errorf("replace interests: %w", err)
	}

	return ctx.JSON(struct {
		UserId    muse.UserId `json:"userId"`
		Interests []string    `json:"interests"`
	}{UserId: user.Id, Interests: body.Interest})
}

func (c *UserController) serveProfile(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	posts, err := c.Posts.ListOwnedBy(ctx.Context(), user.Id)
	if err != nil {
		return fmt.Errorf("list owned posts: %w", err)
	}

	postResponses, err := mapPostListings(c.Presigner, posts)
	if err != nil {
		return err
	}

	avatarUrl, err := c.Presigner.DownloadURL(user.ProfilePicturePath)
	if err != nil {
		return fmt.Errorf("presign avatar: %w", err)
	}

	return ctx.JSON(struct {
		Name              string         `json:"name"`
		Description       string         `json:"description,omitempty"`
		Streak            int            `json:"streak"`
		ProfilePictureUrl string         `json:"profilePictureUrl"`
		Posts             []PostResponse `json:"posts"`
	}{
		Name:              user.Name,
		Description:       user.Description,
		Streak:            user.Streak,
		ProfilePictureUrl: avatarUrl,
		Posts:             postResponses,
	})
}

func (c *UserController) serveUpdateProfile(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	body := struct {
		Description        *string `json:"description"`
		ProfilePicturePath *string `json:"profilePicturePath"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	update := muse.ProfileUpdate{
		Description:        body.Description,
		ProfilePicturePath: body.ProfilePicturePath,
	}
	if update.Empty() {
		return fiber.NewError(fiber.StatusBadRequest,
			"at least one of description or profilePicturePath must be provided")
	}

	updated, err := c.Users.UpdateProfile(ctx.Context(), user.Id, update)
	if err != nil {
		if errors.Is(err, muse.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return fmt.Errorf("update profile: %w", err)
	}

	// Touching the profile is a qualifying action.
	if err := c.Streak.Update(ctx.Context(), user.Id); err != nil {
		return fmt.Errorf("streak update: %w", err)
	}

	return ctx.JSON(struct {
		UserId             muse.UserId `json:"userId"`
		Description        string      `json:"description,omitempty"`
		ProfilePicturePath string      `json:"profilePicturePath,omitempty"`
	}{
		UserId:             updated.Id,
		Description:        updated.Description,
		ProfilePicturePath: updated.ProfilePicturePath,
	})
}

func (c *UserController) serveStreak(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	latest, err := c.Exercises.LatestByUserId(ctx.Context(), user.Id)
	if err != nil {
		return fmt.Errorf("latest completion: %w", err)
	}

	var lastExerciseDate *time.Time
	if latest != nil {
		lastExerciseDate = &latest.CreatedAt
	}
	return ctx.JSON(struct {
		Streak           int        `json:"streak"`
		LastExerciseDate *time.Time `json:"lastExerciseDate"`
	}{Streak: user.Streak, LastExerciseDate: lastExerciseDate})
}

func (c *UserController) serveStatistics(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	stats, err := c.Stats.ForUser(ctx.Context(), user.Id)
	if err != nil {
		if errors.Is(err, muse.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return fmt.Errorf("statistics: %w", err)
	}
	return ctx.JSON(stats)
}
