package service

import (
	"context"
	"time"

	"github.com/inkpress/inkpress/backend/internal/blog/domain"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
)

type mockPostRepo struct {
	CreateFunc             func(ctx context.Context, post domain.Post) error
	FindByIDFunc           func(ctx context.Context, id domain.ID) (domain.Post, error)
	UpdateOwnedFunc        func(ctx context.Context, id domain.ID, authorID string, title, content *string, updatedAt time.Time) error
	SetVisibilityOwnedFunc func(ctx context.Context, id domain.ID, authorID string, published bool, updatedAt time.Time) error
	ListPublishedFunc      func(ctx context.Context) ([]domain.Post, error)
	ListByAuthorFunc       func(ctx context.Context, authorID string) ([]domain.Post, error)
}

func (m *mockPostRepo) Create(ctx context.Context, post domain.Post) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	return nil
}

func (m *mockPostRepo) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return domain.Post{}, commonerrors.ErrPostNotFound
}

func (m *mockPostRepo) UpdateOwned(ctx context.Context, id domain.ID, authorID string, title, content *string, updatedAt time.Time) error {
	if m.UpdateOwnedFunc != nil {
		return m.UpdateOwnedFunc(ctx, id, authorID, title, content, updatedAt)
	}
	return nil
}

func (m *mockPostRepo) SetVisibilityOwned(ctx context.Context, id domain.ID, authorID string, published bool, updatedAt time.Time) error {
	if m.SetVisibilityOwnedFunc != nil {
		return m.SetVisibilityOwnedFunc(ctx, id, authorID, published, updatedAt)
	}
	return nil
}

func (m *mockPostRepo) ListPublished(ctx context.Context) ([]domain.Post, error) {
	if m.ListPublishedFunc != nil {
		return m.ListPublishedFunc(ctx)
	}
	return nil, nil
}

func (m *mockPostRepo) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, authorID)
	}
	return nil, nil
}

type mockIDGenerator struct {
	NewIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.NewIDFunc != nil {
		return m.NewIDFunc()
	}
	return "11111111-1111-4111-8111-111111111111", nil
}
