package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/backend/internal/blog/domain"
	"github.com/inkpress/inkpress/backend/internal/common/clock"
	"github.com/inkpress/inkpress/backend/internal/common/constants"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
)

const (
	testPostID   = "22222222-2222-4222-8222-222222222222"
	testAuthorID = "33333333-3333-4333-8333-333333333333"
	testOtherID  = "44444444-4444-4444-8444-444444444444"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setupBlogService(t *testing.T, repo *mockPostRepo) *BlogService {
	t.Helper()
	log, err := logger.New("", "test", "info")
	require.NoError(t, err)

	return NewBlogService(BlogServiceDeps{
		Repo:        repo,
		IDGenerator: &mockIDGenerator{},
		Clock:       clock.NewMockClock(testNow),
		Log:         log,
	})
}

func strPtr(s string) *string { return &s }

func ownedPost() domain.Post {
	return domain.Post{
		ID:        domain.ID(testPostID),
		Title:     "First draft",
		Content:   "Body",
		AuthorID:  testAuthorID,
		Published: false,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func TestCreatePost_AlwaysStartsAsDraft(t *testing.T) {
	var created domain.Post
	repo := &mockPostRepo{
		CreateFunc: func(ctx context.Context, post domain.Post) error {
			created = post
			return nil
		},
	}
	svc := setupBlogService(t, repo)

	post, err := svc.CreatePost(context.Background(), testAuthorID, CreatePostInput{
		Title:   "First draft",
		Content: "Body",
	})
	require.NoError(t, err)

	assert.False(t, post.Published, "new posts must start unpublished")
	assert.Equal(t, testAuthorID, post.AuthorID)
	assert.Equal(t, testNow, post.CreatedAt)
	assert.Equal(t, testNow, post.UpdatedAt)
	assert.Equal(t, created, post, "stored post must match the returned one")
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreatePostInput
		wantErr error
	}{
		{"empty title", CreatePostInput{Title: "", Content: "Body"}, ErrValidationTitle},
		{"title too long", CreatePostInput{Title: strings.Repeat("t", constants.TitleMaxLength+1), Content: "Body"}, ErrValidationTitle},
		{"empty content", CreatePostInput{Title: "Title", Content: ""}, ErrValidationContent},
		{"content too long", CreatePostInput{Title: "Title", Content: strings.Repeat("c", constants.ContentMaxLength+1)}, ErrValidationContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setupBlogService(t, &mockPostRepo{
				CreateFunc: func(ctx context.Context, post domain.Post) error {
					t.Fatal("repository must not be reached on validation failure")
					return nil
				},
			})

			_, err := svc.CreatePost(context.Background(), testAuthorID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdatePost_Success(t *testing.T) {
	updatedTitle := "Second draft"
	stored := ownedPost()
	repo := &mockPostRepo{
		FindByIDFunc: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			return stored, nil
		},
		UpdateOwnedFunc: func(ctx context.Context, id domain.ID, authorID string, title, content *string, updatedAt time.Time) error {
			require.Equal(t, domain.ID(testPostID), id)
			require.Equal(t, testAuthorID, authorID)
			require.NotNil(t, title)
			assert.Equal(t, updatedTitle, *title)
			assert.Nil(t, content, "omitted fields must not be touched")
			stored.Title = *title
			stored.UpdatedAt = updatedAt
			return nil
		},
	}
	svc := setupBlogService(t, repo)

	post, err := svc.UpdatePost(context.Background(), testAuthorID, UpdatePostInput{
		ID:    testPostID,
		Title: &updatedTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, updatedTitle, post.Title)
	assert.Equal(t, "Body", post.Content)
}

func TestUpdatePost_EmptyUpdateRejected(t *testing.T) {
	svc := setupBlogService(t, &mockPostRepo{})

	_, err := svc.UpdatePost(context.Background(), testAuthorID, UpdatePostInput{ID: testPostID})
	assert.ErrorIs(t, err, ErrValidationEmptyUpdate)
}

func TestUpdatePost_InvalidID(t *testing.T) {
	svc := setupBlogService(t, &mockPostRepo{})

	_, err := svc.UpdatePost(context.Background(), testAuthorID, UpdatePostInput{
		ID:    "not-a-uuid",
		Title: strPtr("Title"),
	})
	assert.ErrorIs(t, err, ErrInvalidPostID)
}

func TestUpdatePost_MissingAndForeignAreIndistinguishable(t *testing.T) {
	missingRepo := &mockPostRepo{
		FindByIDFunc: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			return domain.Post{}, commonerrors.ErrPostNotFound
		},
	}
	foreign := ownedPost()
	foreign.AuthorID = testOtherID
	foreignRepo := &mockPostRepo{
		FindByIDFunc: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			return foreign, nil
		},
	}

	_, errMissing := setupBlogService(t, missingRepo).UpdatePost(context.Background(), testAuthorID, UpdatePostInput{
		ID:    testPostID,
		Title: strPtr("Title"),
	})
	_, errForeign := setupBlogService(t, foreignRepo).UpdatePost(context.Background(), testAuthorID, UpdatePostInput{
		ID:    testPostID,
		Title: strPtr("Title"),
	})

	require.ErrorIs(t, errMissing, ErrPostNotOwned)
	require.ErrorIs(t, errForeign, ErrPostNotOwned)
	assert.Equal(t, errMissing.Error(), errForeign.Error())
}

func TestUpdatePost_StoreGuardWinsOverFastPath(t *testing.T) {
	// The pre-check sees an owned post but the author-scoped update
	// matches zero rows, as when the post is deleted in between.
	repo := &mockPostRepo{
		FindByIDFunc: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			return ownedPost(), nil
		},
		UpdateOwnedFunc: func(ctx context.Context, id domain.ID, authorID string, title, content *string, updatedAt time.Time) error {
			return commonerrors.ErrPostNotFound
		},
	}
	svc := setupBlogService(t, repo)

	_, err := svc.UpdatePost(context.Background(), testAuthorID, UpdatePostInput{
		ID:    testPostID,
		Title: strPtr("Title"),
	})
	assert.ErrorIs(t, err, ErrPostNotOwned)
}

func TestChangeVisibility_Publish(t *testing.T) {
	var gotPublished bool
	repo := &mockPostRepo{
		FindByIDFunc: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			return ownedPost(), nil
		},
		SetVisibilityOwnedFunc: func(ctx context.Context, id domain.ID, authorID string, published bool, updatedAt time.Time) error {
			require.Equal(t, testAuthorID, authorID)
			gotPublished = published
			return nil
		},
	}
	svc := setupBlogService(t, repo)

	err := svc.ChangeVisibility(context.Background(), testAuthorID, VisibilityInput{ID: testPostID, Published: true})
	require.NoError(t, err)
	assert.True(t, gotPublished)
}

func TestChangeVisibility_NotOwner(t *testing.T) {
	foreign := ownedPost()
	foreign.AuthorID = testOtherID
	repo := &mockPostRepo{
		FindByIDFunc: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			return foreign, nil
		},
		SetVisibilityOwnedFunc: func(ctx context.Context, id domain.ID, authorID string, published bool, updatedAt time.Time) error {
			t.Fatal("store must not be reached when ownership fails")
			return nil
		},
	}
	svc := setupBlogService(t, repo)

	err := svc.ChangeVisibility(context.Background(), testAuthorID, VisibilityInput{ID: testPostID, Published: true})
	assert.ErrorIs(t, err, ErrPostNotOwned)
}

func TestGetPost(t *testing.T) {
	repo := &mockPostRepo{
		FindByIDFunc: func(ctx context.Context, id domain.ID) (domain.Post, error) {
			if id == domain.ID(testPostID) {
				return ownedPost(), nil
			}
			return domain.Post{}, commonerrors.ErrPostNotFound
		},
	}
	svc := setupBlogService(t, repo)

	post, err := svc.GetPost(context.Background(), testPostID)
	require.NoError(t, err)
	assert.Equal(t, domain.ID(testPostID), post.ID)

	_, err = svc.GetPost(context.Background(), testOtherID)
	assert.ErrorIs(t, err, commonerrors.ErrPostNotFound)

	_, err = svc.GetPost(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidPostID)
}

func TestListPublished(t *testing.T) {
	published := ownedPost()
	published.Published = true
	repo := &mockPostRepo{
		ListPublishedFunc: func(ctx context.Context) ([]domain.Post, error) {
			return []domain.Post{published}, nil
		},
	}
	svc := setupBlogService(t, repo)

	posts, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Published)
}

func TestListMine(t *testing.T) {
	repo := &mockPostRepo{
		ListByAuthorFunc: func(ctx context.Context, authorID string) ([]domain.Post, error) {
			require.Equal(t, testAuthorID, authorID)
			return []domain.Post{ownedPost()}, nil
		},
	}
	svc := setupBlogService(t, repo)

	posts, err := svc.ListMine(context.Background(), testAuthorID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestListPublished_DatabaseError(t *testing.T) {
	repo := &mockPostRepo{
		ListPublishedFunc: func(ctx context.Context) ([]domain.Post, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := setupBlogService(t, repo)

	_, err := svc.ListPublished(context.Background())
	assert.ErrorIs(t, err, commonerrors.ErrDatabaseError)
}
