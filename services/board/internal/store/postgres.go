package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

// PostgresStore persists the board in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by Postgres.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) CreateUser(ctx context.Context, name string) (User, error) {
	const q = `INSERT INTO users (id, name) VALUES ($1, $2)
	           ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	           RETURNING id, name`
	var u User
	err := s.pool.QueryRow(ctx, q, uuid.NewString(), name).Scan(&u.ID, &u.Name)
	return u, err
}

func (s *PostgresStore) CreatePost(ctx context.Context, title, body string) (Post, error) {
	const q = `INSERT INTO posts (id, title, body) VALUES ($1, $2, $3)
	           RETURNING id, title, body, created_at`
	var p Post
	err := s.pool.QueryRow(ctx, q, uuid.NewString(), title, body).Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt)
	return p, err
}

func (s *PostgresStore) FindUserByName(ctx context.Context, name string) (User, error) {
	const q = `SELECT id, name FROM users WHERE name = $1 ORDER BY id LIMIT 1`
	var u User
	err := s.pool.QueryRow(ctx, q, name).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]PostSummary, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title FROM posts ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PostSummary{}
	for rows.Next() {
		var p PostSummary
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPostDetail(ctx context.Context, postID, viewerID string) (PostDetail, error) {
	var d PostDetail
	err := s.pool.QueryRow(ctx, `SELECT title, body FROM posts WHERE id = $1`, postID).Scan(&d.Title, &d.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return PostDetail{}, ErrNotFound
	}
	if err != nil {
		return PostDetail{}, err
	}

	const q = `SELECT c.id, c.message, c.parent_id, c.created_at, u.id, u.name,
	                  (SELECT count(*) FROM likes l WHERE l.comment_id = c.id),
	                  EXISTS (SELECT 1 FROM likes l WHERE l.comment_id = c.id AND l.user_id = $2)
	           FROM comments c
	           JOIN users u ON u.id = c.user_id
	           WHERE c.post_id = $1
	           ORDER BY c.created_at DESC, c.seq DESC`
	rows, err := s.pool.Query(ctx, q, postID, viewerID)
	if err != nil {
		return PostDetail{}, err
	}
	defer rows.Close()

	d.Comments = []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Message, &c.ParentID, &c.CreatedAt,
			&c.User.ID, &c.User.Name, &c.LikeCount, &c.LikedByMe); err != nil {
			return PostDetail{}, err
		}
		d.Comments = append(d.Comments, c)
	}
	return d, rows.Err()
}

func (s *PostgresStore) CreateComment(ctx context.Context, nc NewComment) (Comment, error) {
	// Parent validation and insert are a single statement.
	const q = `WITH ins AS (
	               INSERT INTO comments (id, message, user_id, post_id, parent_id)
	               SELECT $1, $2, $3, $4, $5::text
	               WHERE EXISTS (SELECT 1 FROM posts WHERE id = $4)
	                 AND ($5::text IS NULL
	                      OR EXISTS (SELECT 1 FROM comments WHERE id = $5::text AND post_id = $4))
	               RETURNING id, message, user_id, parent_id, created_at
	           )
	           SELECT ins.id, ins.message, ins.parent_id, ins.created_at, u.id, u.name
	           FROM ins JOIN users u ON u.id = ins.user_id`
	var c Comment
	err := s.pool.QueryRow(ctx, q, uuid.NewString(), nc.Message, nc.UserID, nc.PostID, nc.ParentID).
		Scan(&c.ID, &c.Message, &c.ParentID, &c.CreatedAt, &c.User.ID, &c.User.Name)
	switch {
	case err == nil:
		return c, nil
	case isForeignKeyViolation(err):
		return Comment{}, foreignKeyError(err)
	case !errors.Is(err, pgx.ErrNoRows):
		return Comment{}, err
	}

	var postExists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, nc.PostID).Scan(&postExists); err != nil {
		return Comment{}, err
	}
	if !postExists {
		return Comment{}, ErrNotFound
	}
	return Comment{}, ErrInvalidParent
}

func (s *PostgresStore) UpdateComment(ctx context.Context, commentID, userID, message string) (string, error) {
	const q = `UPDATE comments SET message = $3, updated_at = now()
	           WHERE id = $1 AND user_id = $2
	           RETURNING message`
	var out string
	err := s.pool.QueryRow(ctx, q, commentID, userID, message).Scan(&out)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", s.notFoundOrForbidden(ctx, commentID)
	}
	return out, err
}

func (s *PostgresStore) DeleteComment(ctx context.Context, commentID, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND user_id = $2`, commentID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.notFoundOrForbidden(ctx, commentID)
	}
	return nil
}

func (s *PostgresStore) ToggleLike(ctx context.Context, commentID, userID string) (bool, error) {
	const q = `WITH removed AS (
	               DELETE FROM likes WHERE user_id = $1::text AND comment_id = $2::text
	               RETURNING 1
	           ), added AS (
	               INSERT INTO likes (user_id, comment_id)
	               SELECT $1::text, $2::text
	               WHERE NOT EXISTS (SELECT 1 FROM removed)
	               ON CONFLICT (user_id, comment_id) DO NOTHING
	               RETURNING 1
	           )
	           SELECT EXISTS (SELECT 1 FROM added)`
	var added bool
	err := s.pool.QueryRow(ctx, q, userID, commentID).Scan(&added)
	if isForeignKeyViolation(err) {
		return false, foreignKeyError(err)
	}
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}
	return added, nil
}

// notFoundOrForbidden tells a missing comment from one owned by someone else
// after a conditional write matched nothing.
func (s *PostgresStore) notFoundOrForbidden(ctx context.Context, commentID string) error {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, commentID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrForbidden
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// foreignKeyError names the missing row behind a foreign key violation: the
// acting user, or the post or comment being written to.
func foreignKeyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasSuffix(pgErr.ConstraintName, "_user_id_fkey") {
		return ErrUnknownUser
	}
	return ErrNotFound
}
