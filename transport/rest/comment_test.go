package rest

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/mock"
	"github.com/stretchr/testify/assert"
)

func TestPostComments(t *testing.T) {
	assert := assert.New(t)
	createdAt := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)

	controller := CommentController{
		Comments: mock.CommentStore{
			ByPostIdFn: func(ctx context.Context, postId string) ([]muse.CommentListing, error) {
				assert.Equal("p1", postId)
				return []muse.CommentListing{{
					Comment:         muse.Comment{Id: 1, PostId: "p1", UserId: "u2", Content: "Love it!", CreatedAt: createdAt},
					OwnerName:       "Flavia",
					OwnerAvatarPath: "u2/avatar.jpg",
				}}, nil
			},
		},
		Posts:     existingPostStore(),
		Presigner: mock.Presigner{},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	resp, err := app.Test(jsonRequest(t, "GET", "/posts/p1/comments", nil))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusOK, resp.StatusCode)
	assert.Equal(`[{"comment_id":1,"content":"Love it!","owner_name":"Flavia",`+
		`"owner_avatar_url":"https://blob.test/u2/avatar.jpg","createdAt":"2024-03-08T12:00:00Z"}]`,
		readBody(t, resp))
}

func TestAddComment(t *testing.T) {
	assert := assert.New(t)

	added := false
	controller := CommentController{
		Comments: mock.CommentStore{
			AddFn: func(ctx context.Context, postId string, userId muse.UserId, content string) error {
				assert.Equal("p1", postId)
				assert.Equal(muse.UserId("u1"), userId)
				assert.Equal("Love it!", content)
				added = true
				return nil
			},
		},
		Posts:     existingPostStore(),
		Presigner: mock.Presigner{},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	req := jsonRequest(t, "POST", "/posts/p1/comments", map[string]string{"content": "Love it!"})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusCreated, resp.StatusCode)
	assert.True(added)
}

func TestAddCommentBlankContent(t *testing.T) {
	assert := assert.New(t)

	controller := CommentController{
		Comments:  mock.CommentStore{},
		Posts:     existingPostStore(),
		Presigner: mock.Presigner{},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	req := jsonRequest(t, "POST", "/posts/p1/comments", map[string]string{"content": "   "})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddCommentUnknownPost(t *testing.T) {
	assert := assert.New(t)

	controller := CommentController{
		Comments:  mock.CommentStore{},
		Posts:     existingPostStore(),
		Presigner: mock.Presigner{},
	}
	app := newTestApp()
	controller.InstallTo(testAuthorizer(muse.User{Id: "u1"}), app)

	req := jsonRequest(t, "POST", "/posts/ghost/comments", map[string]string{"content": "Love it!"})
	resp, err := app.Test(req)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(fiber.StatusNotFound, resp.StatusCode)
}
