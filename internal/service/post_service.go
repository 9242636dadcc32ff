package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/aidka-pyramidka/post-in-a-social-media/internal/errors"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/model"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/repository/interfaces"

	"github.com/google/uuid"
)

// PostInput 是创建/更新帖子的请求体。
// 所有字段都是可选的：nil 表示请求里没有这个字段，
// 更新时 nil 回退到已存储的值，显式传空串仍然要过必填校验。
// Likes 保留原始 JSON，由 parseLikes 显式解析。
type PostInput struct {
	Author     *string         `json:"author"`
	Content    *string         `json:"content"`
	Visibility *string         `json:"visibility"`
	Likes      json.RawMessage `json:"likes"`
}

type PostService struct {
	repo interfaces.PostRepository
}

func NewPostService(repo interfaces.PostRepository) *PostService {
	return &PostService{repo}
}

// List 返回按创建时间倒序排列的全部帖子
func (s *PostService) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子列表失败", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "Not found")
	}
	return post, nil
}

// Create 校验输入并持久化一条新帖子。
// visibility 非法时静默回退到 PUBLIC，likes 缺省为 0。
func (s *PostService) Create(ctx context.Context, input PostInput) (*model.Post, error) {
	author := strings.TrimSpace(stringOr(input.Author, ""))
	if author == "" {
		return nil, errors.New(errors.ErrValidation, "author is required")
	}

	content := strings.TrimSpace(stringOr(input.Content, ""))
	if content == "" {
		return nil, errors.New(errors.ErrValidation, "content is required")
	}

	visibility := model.ParseVisibility(stringOr(input.Visibility, ""), model.VisibilityPublic)

	likes, err := parseLikes(input.Likes, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &model.Post{
		ID:         uuid.NewString(),
		Author:     author,
		Content:    content,
		Visibility: visibility,
		Likes:      likes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建帖子失败", err)
	}

	return post, nil
}

// Update 更新已有帖子。请求里缺失的字段回退到已存储的值，
// 然后套用与 Create 相同的校验规则；createdAt 保持不变。
func (s *PostService) Update(ctx context.Context, id string, input PostInput) (*model.Post, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if existing == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "Not found")
	}

	author := strings.TrimSpace(stringOr(input.Author, existing.Author))
	if author == "" {
		return nil, errors.New(errors.ErrValidation, "author is required")
	}

	content := strings.TrimSpace(stringOr(input.Content, existing.Content))
	if content == "" {
		return nil, errors.New(errors.ErrValidation, "content is required")
	}

	visibility := existing.Visibility
	if input.Visibility != nil {
		visibility = model.ParseVisibility(*input.Visibility, existing.Visibility)
	}

	likes, err := parseLikes(input.Likes, existing.Likes)
	if err != nil {
		return nil, err
	}

	updated := &model.Post{
		ID:         existing.ID,
		Author:     author,
		Content:    content,
		Visibility: visibility,
		Likes:      likes,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}

	// 读取和写入没有包在同一个事务里，期间被并发删除的帖子
	// 会在这里表现为未命中
	ok, err := s.repo.Update(ctx, updated)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新帖子失败", err)
	}
	if !ok {
		return nil, errors.New(errors.ErrResourceNotFound, "Not found")
	}

	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除帖子失败", err)
	}
	if !ok {
		return errors.New(errors.ErrResourceNotFound, "Not found")
	}
	return nil
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// parseLikes 显式解析 likes 字段：字段缺失或为 null 时返回 fallback，
// 非数字、非整数或负数一律拒绝
func parseLikes(raw json.RawMessage, fallback int) (int, error) {
	if raw == nil || string(raw) == "null" {
		return fallback, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.New(errors.ErrValidation, "likes must be an integer >= 0")
	}

	likes, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil || likes < 0 {
		return 0, errors.New(errors.ErrValidation, "likes must be an integer >= 0")
	}

	return int(likes), nil
}
