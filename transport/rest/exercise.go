package rest

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
)

type ExerciseController struct {
	Exercises   muse.ExerciseStore
	Completions muse.UserExerciseStore
	Streak      muse.StreakUpdater

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

func (c *ExerciseController) InstallTo(requestAuthorizer fiber.Handler, app *fiber.App) {
	app.Get("/exercises/today", combineHandlers(requestAuthorizer, c.serveToday))
	app.Get("/exercises/history", combineHandlers(requestAuthorizer, c.serveHistory))
	app.Post("/exercises/:exercise_id/completions", combineHandlers(requestAuthorizer, c.serveRegisterCompletion))
}

func (c *ExerciseController) serveToday(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	exercises, err := c.Exercises.TodayForUser(ctx.Context(), user.Id, c.now())
	if err != nil {
		return fmt.Errorf("today exercises: %w", err)
	}
	if len(exercises) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no exercises were found")
	}

	type ExerciseResponse struct {
		ExerciseId  string `json:"exercise_id"`
		Type        string `json:"type"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	}
	responses := make([]ExerciseResponse, len(exercises))
	for i, exercise := range exercises {
		responses[i] = ExerciseResponse{
			ExerciseId:  exercise.Id,
			Type:        exercise.Type,
			Title:       exercise.Title,
			Description: exercise.Description,
		}
	}
	return ctx.JSON(responses)
}

func (c *ExerciseController) serveHistory(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}

	history, err := c.Completions.History(ctx.Context(), user.Id)
	if err != nil {
		return fmt.Errorf("exercise history: %w", err)
	}
	if len(history) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no exercise history found")
	}

	type HistoryResponse struct {
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		Interest    string    `json:"interest"`
		PerformedAt time.Time `json:"performedAt"`
	}
	responses := make([]HistoryResponse, len(history))
	for i, entry := range history {
		responses[i] = HistoryResponse{
			Title:       entry.Title,
			Description: entry.Description,
			Interest:    entry.Interest,
			PerformedAt: entry.PerformedAt,
		}
	}
	return ctx.JSON(responses)
}

func (c *ExerciseController) serveRegisterCompletion(ctx *fiber.Ctx) error {
	user, ok := requestUser(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	exerciseId := ctx.Params("exercise_id")
	if exerciseId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no exercise id")
	}

	body := struct {
		Content string `json:"content"`
	}{}
	if err := ctx.BodyParser(&body); err != nil {
		RequestLog(ctx).WithError(err).Infoln("Invalid body.")
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if _, err := c.Exercises.ById(ctx.Context(), exerciseId); err != nil {
		if errors.Is(err, muse.ErrExerciseNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "exercise not found")
		}
		return fmt.Errorf("exercise by id: %w", err)
	}

	if err := c.Completions.Register(ctx.Context(), user.Id, exerciseId, body.Content); err != nil {
		return fmt.Errorf("register completion: %w", err)
	}

	// Completing an exercise is the primary qualifying action.
	if err := c.Streak.Update(ctx.Context(), user.Id); err != nil {
		return fmt.Errorf("streak update: %w", err)
	}

	return ctx.SendStatus(fiber.StatusCreated)
}

func (c *ExerciseController) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
