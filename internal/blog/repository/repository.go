package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commondb "github.com/inkpress/inkpress/backend/internal/common/db"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	"github.com/inkpress/inkpress/backend/internal/blog/domain"
)

type Repository interface {
	Create(ctx context.Context, post domain.Post) error
	FindByID(ctx context.Context, id domain.ID) (domain.Post, error)
	UpdateOwned(ctx context.Context, id domain.ID, authorID string, title, content *string, updatedAt time.Time) error
	SetVisibilityOwned(ctx context.Context, id domain.ID, authorID string, published bool, updatedAt time.Time) error
	ListPublished(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) error {
	start := time.Now()

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO posts (id, title, content, author_id, published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		string(post.ID),
		post.Title,
		post.Content,
		post.AuthorID,
		post.Published,
		post.CreatedAt,
	)
	return commondb.HandleExecError(err, "create_post", "posts", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, title, content, author_id, published, created_at, updated_at
		 FROM posts WHERE id = $1`,
		string(id),
	)

	var post domain.Post
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.Published, &post.CreatedAt, &post.UpdatedAt)
	if err := commondb.HandleQueryError(err, commonerrors.ErrPostNotFound, "find_post_by_id", "posts", start); err != nil {
		return domain.Post{}, err
	}

	return post, nil
}

// UpdateOwned scopes the update by author so a row only changes when the
// requester owns it; zero affected rows is surfaced as not-found, and
// callers must not distinguish that from not-owned.
func (r *PgRepository) UpdateOwned(ctx context.Context, id domain.ID, authorID string, title, content *string, updatedAt time.Time) error {
	start := time.Now()

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE posts
		 SET title = COALESCE($3, title), content = COALESCE($4, content), updated_at = $5
		 WHERE id = $1 AND author_id = $2`,
		string(id),
		authorID,
		title,
		content,
		updatedAt,
	)
	if err := commondb.HandleExecError(err, "update_post", "posts", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return commonerrors.ErrPostNotFound
	}
	return nil
}

func (r *PgRepository) SetVisibilityOwned(ctx context.Context, id domain.ID, authorID string, published bool, updatedAt time.Time) error {
	start := time.Now()

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE posts SET published = $3, updated_at = $4 WHERE id = $1 AND author_id = $2`,
		string(id),
		authorID,
		published,
		updatedAt,
	)
	if err := commondb.HandleExecError(err, "set_post_visibility", "posts", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return commonerrors.ErrPostNotFound
	}
	return nil
}

func (r *PgRepository) ListPublished(ctx context.Context) ([]domain.Post, error) {
	start := time.Now()

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, title, content, author_id, published, created_at, updated_at
		 FROM posts
		 WHERE published = TRUE
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, commondb.HandleExecError(err, "list_published_posts", "posts", start)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err := commondb.HandleExecError(err, "list_published_posts", "posts", start); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PgRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	start := time.Now()

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, title, content, author_id, published, created_at, updated_at
		 FROM posts
		 WHERE author_id = $1
		 ORDER BY created_at DESC`,
		authorID,
	)
	if err != nil {
		return nil, commondb.HandleExecError(err, "list_posts_by_author", "posts", start)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err := commondb.HandleExecError(err, "list_posts_by_author", "posts", start); err != nil {
		return nil, err
	}
	return posts, nil
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
