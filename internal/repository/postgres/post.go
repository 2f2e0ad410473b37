package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

const postColumns = "p.id, p.uid, p.name, p.username, p.email, p.image_url, p.caption, p.prompt, p.created_at, p.approved, p.reactions"

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) repository.Posts {
	return &postRepo{
		db: db,
	}
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	if err := row.Scan(
		&post.ID,
		&post.UID,
		&post.Name,
		&post.Username,
		&post.Email,
		&post.ImageURL,
		&post.Caption,
		&post.Prompt,
		&post.Timestamp,
		&post.Approved,
		&post.Reactions,
	); err != nil {
		return nil, mapErr(err)
	}

	if post.Reactions == nil {
		post.Reactions = map[string]string{}
	}
	post.Timestamp = post.Timestamp.UTC()
	return &post, nil
}

func (r *postRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	post.ID = uuid.NewString()
	if post.Reactions == nil {
		post.Reactions = map[string]string{}
	}

	if err := r.db.QueryRow(
		ctx,
		`
		INSERT INTO posts(id, uid, name, username, email, image_url, caption, prompt, approved, reactions)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
		`,
		post.ID,
		post.UID,
		post.Name,
		post.Username,
		post.Email,
		post.ImageURL,
		post.Caption,
		post.Prompt,
		post.Approved,
		post.Reactions,
	).Scan(&post.Timestamp); err != nil {
		return nil, err
	}

	post.Timestamp = post.Timestamp.UTC()
	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return scanPost(r.db.QueryRow(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = $1", id))
}

func (r *postRepo) ListApproved(ctx context.Context, after *model.PageKey, limit int) ([]*model.Post, error) {
	if after == nil {
		return r.queryPosts(
			ctx,
			"SELECT "+postColumns+" FROM posts p WHERE p.approved ORDER BY p.created_at DESC, p.id DESC LIMIT $1",
			limit,
		)
	}

	return r.queryPosts(
		ctx,
		`
		SELECT `+postColumns+`
		FROM posts p
		WHERE p.approved AND (p.created_at, p.id) < ($1, $2)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3
		`,
		after.Timestamp,
		after.ID,
		limit,
	)
}

func (r *postRepo) ListByUID(ctx context.Context, uid string) ([]*model.Post, error) {
	return r.queryPosts(
		ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.uid = $1 ORDER BY p.created_at DESC, p.id DESC",
		uid,
	)
}

// SetReaction merges a single key into the reactions document.
func (r *postRepo) SetReaction(ctx context.Context, postID string, uid string, kind string) error {
	return expectAffected(r.db.Exec(
		ctx,
		"UPDATE posts SET reactions = reactions || jsonb_build_object($1::text, $2::text) WHERE id = $3",
		uid,
		kind,
		postID,
	))
}

func (r *postRepo) SetApproved(ctx context.Context, postID string, approved bool) error {
	return expectAffected(r.db.Exec(ctx, "UPDATE posts SET approved = $1 WHERE id = $2", approved, postID))
}

func (r *postRepo) DeleteByID(ctx context.Context, id string) error {
	return expectAffected(r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id))
}

func (r *postRepo) DeleteByUID(ctx context.Context, uid string) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE uid = $1", uid)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
