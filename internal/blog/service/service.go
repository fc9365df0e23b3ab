package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	authservice "github.com/inkpress/inkpress/backend/internal/auth/service"
	"github.com/inkpress/inkpress/backend/internal/blog/domain"
	blogrepo "github.com/inkpress/inkpress/backend/internal/blog/repository"
	"github.com/inkpress/inkpress/backend/internal/common/clock"
	"github.com/inkpress/inkpress/backend/internal/common/constants"
	commoncrypto "github.com/inkpress/inkpress/backend/internal/common/crypto"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
	"github.com/inkpress/inkpress/backend/internal/observability/metrics"
)

type BlogService struct {
	repo        blogrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

type BlogServiceDeps struct {
	Repo        blogrepo.Repository
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewBlogService(deps BlogServiceDeps) *BlogService {
	return &BlogService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		clock:       deps.Clock,
		log:         deps.Log,
	}
}

type CreatePostInput struct {
	Title   string
	Content string
}

type UpdatePostInput struct {
	ID      string
	Title   *string
	Content *string
}

type VisibilityInput struct {
	ID        string
	Published bool
}

// CreatePost stores a new draft owned by the requester. Posts are never
// created published.
func (s *BlogService) CreatePost(ctx context.Context, requesterID string, input CreatePostInput) (domain.Post, error) {
	if input.Title == "" || len(input.Title) > constants.TitleMaxLength {
		return domain.Post{}, ErrValidationTitle
	}
	if input.Content == "" || len(input.Content) > constants.ContentMaxLength {
		return domain.Post{}, ErrValidationContent
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Post{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	post := domain.Post{
		ID:        domain.ID(id),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  requesterID,
		Published: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": requesterID,
			"action":  "create_post_failed",
		}).Errorf("create post failed: %v", err)
		return domain.Post{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.PostsCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": requesterID,
		"post_id": id,
		"action":  "create_post_success",
	}).Info("post created")

	return post, nil
}

// UpdatePost applies a partial content update to a post the requester
// owns and returns the updated post.
func (s *BlogService) UpdatePost(ctx context.Context, requesterID string, input UpdatePostInput) (domain.Post, error) {
	if err := validatePostID(input.ID); err != nil {
		return domain.Post{}, err
	}
	if input.Title == nil && input.Content == nil {
		return domain.Post{}, ErrValidationEmptyUpdate
	}
	if input.Title != nil && (*input.Title == "" || len(*input.Title) > constants.TitleMaxLength) {
		return domain.Post{}, ErrValidationTitle
	}
	if input.Content != nil && (*input.Content == "" || len(*input.Content) > constants.ContentMaxLength) {
		return domain.Post{}, ErrValidationContent
	}

	if err := s.authorizeMutation(ctx, domain.ID(input.ID), requesterID, "update_post"); err != nil {
		return domain.Post{}, err
	}

	// The author-scoped update is the authoritative guard; the check
	// above is only a fast path.
	err := s.repo.UpdateOwned(ctx, domain.ID(input.ID), requesterID, input.Title, input.Content, s.clock.Now())
	if err != nil {
		if errors.Is(err, commonerrors.ErrPostNotFound) {
			metrics.OwnershipDenied.Inc()
			return domain.Post{}, ErrPostNotOwned
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": requesterID,
			"post_id": input.ID,
			"action":  "update_post_failed",
		}).Errorf("update post failed: %v", err)
		return domain.Post{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	post, err := s.repo.FindByID(ctx, domain.ID(input.ID))
	if err != nil {
		return domain.Post{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.PostsUpdated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": requesterID,
		"post_id": input.ID,
		"action":  "update_post_success",
	}).Info("post updated")

	return post, nil
}

// ChangeVisibility publishes or unpublishes a post the requester owns.
func (s *BlogService) ChangeVisibility(ctx context.Context, requesterID string, input VisibilityInput) error {
	if err := validatePostID(input.ID); err != nil {
		return err
	}

	if err := s.authorizeMutation(ctx, domain.ID(input.ID), requesterID, "change_visibility"); err != nil {
		return err
	}

	err := s.repo.SetVisibilityOwned(ctx, domain.ID(input.ID), requesterID, input.Published, s.clock.Now())
	if err != nil {
		if errors.Is(err, commonerrors.ErrPostNotFound) {
			metrics.OwnershipDenied.Inc()
			return ErrPostNotOwned
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": requesterID,
			"post_id": input.ID,
			"action":  "change_visibility_failed",
		}).Errorf("change visibility failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.PostVisibilityChanges.WithLabelValues(strconv.FormatBool(input.Published)).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":   requesterID,
		"post_id":   input.ID,
		"published": input.Published,
		"action":    "change_visibility_success",
	}).Info("post visibility changed")

	return nil
}

// GetPost fetches a post by id. Reads are not ownership-gated: any
// authenticated user may fetch any post by its id.
func (s *BlogService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	if err := validatePostID(id); err != nil {
		return domain.Post{}, err
	}

	post, err := s.repo.FindByID(ctx, domain.ID(id))
	if err != nil {
		if errors.Is(err, commonerrors.ErrPostNotFound) {
			return domain.Post{}, commonerrors.ErrPostNotFound
		}
		return domain.Post{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return post, nil
}

func (s *BlogService) ListPublished(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.ListPublished(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_published_failed",
		}).Errorf("list published posts failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return posts, nil
}

func (s *BlogService) ListMine(ctx context.Context, requesterID string) ([]domain.Post, error) {
	posts, err := s.repo.ListByAuthor(ctx, requesterID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": requesterID,
			"action":  "list_mine_failed",
		}).Errorf("list own posts failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return posts, nil
}

// authorizeMutation resolves the post and runs the ownership equality
// check. A missing post and a post owned by someone else produce the
// same error.
func (s *BlogService) authorizeMutation(ctx context.Context, id domain.ID, requesterID, action string) error {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, commonerrors.ErrPostNotFound) {
			metrics.OwnershipDenied.Inc()
			return ErrPostNotOwned
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	if !authservice.AuthorizeOwnership(post.AuthorID, requesterID) {
		metrics.OwnershipDenied.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": requesterID,
			"post_id": string(id),
			"action":  action + "_denied",
		}).Warn("post mutation denied: not owner")
		return ErrPostNotOwned
	}

	return nil
}

func validatePostID(id string) error {
	if id == "" {
		return ErrInvalidPostID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidPostID
	}
	return nil
}
