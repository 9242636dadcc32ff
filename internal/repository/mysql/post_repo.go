package mysql

import (
	"context"
	"database/sql"

	"github.com/aidka-pyramidka/post-in-a-social-media/internal/model"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/util"

	"go.uber.org/zap"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	query := `SELECT id, author, content, visibility, likes, created_at, updated_at
              FROM posts
              ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		util.Logger.Error("查询帖子列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		err := rows.Scan(
			&post.ID, &post.Author, &post.Content, &post.Visibility,
			&post.Likes, &post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	query := `SELECT id, author, content, visibility, likes, created_at, updated_at
              FROM posts
              WHERE id = ?`

	var post model.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Author, &post.Content, &post.Visibility,
		&post.Likes, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (id, author, content, visibility, likes, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Author, post.Content, post.Visibility,
		post.Likes, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID))
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) (bool, error) {
	query := `UPDATE posts
              SET author = ?, content = ?, visibility = ?, likes = ?, updated_at = ?
              WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		post.Author, post.Content, post.Visibility, post.Likes,
		post.UpdatedAt, post.ID,
	)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.String("post_id", post.ID))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM posts WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.String("post_id", id))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
