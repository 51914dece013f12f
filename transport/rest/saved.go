package rest

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
)

// SaveResponse is the body of every save/unsave request. The transport
// always replies 200; StatusCode carries the outcome kind so clients can
// tell a real change (200) from a no-op (204) and from "nothing to
// unsave" (404) without treating any of them as request failures.
type SaveResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// noun is the capitalized item kind shown to the user, e.g. "Post".
func saveResponse(outcome muse.ToggleOutcome, noun string) SaveResponse {
	switch outcome {
	case muse.OutcomeSaved:
		return SaveResponse{
			StatusCode: fiber.StatusOK,
			Message:    fmt.Sprintf("%s saved successfully.", noun),
		}
	case muse.OutcomeRemoved:
		return SaveResponse{
			StatusCode: fiber.StatusOK,
			Message:    fmt.Sprintf("%s removed successfully.", noun),
		}
	case muse.OutcomeNoModification:
		return SaveResponse{
			StatusCode: fiber.StatusNoContent,
			Message:    "No modification were needed.",
		}
	case muse.OutcomeNotSavedBefore:
		return SaveResponse{
			StatusCode: fiber.StatusNotFound,
			Message:    fmt.Sprintf("Saved %s not found to remove.", strings.ToLower(noun)),
		}
	default:
		return SaveResponse{
			StatusCode: fiber.StatusInternalServerError,
			Message:    "Unknown outcome.",
		}
	}
}
