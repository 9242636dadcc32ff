package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/aidka-pyramidka/post-in-a-social-media/internal/errors"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository 是 PostRepository 接口的模拟实现
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *model.Post) (bool, error) {
	args := m.Called(ctx, post)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string {
	return &s
}

func rawJSON(s string) json.RawMessage {
	return json.RawMessage(s)
}

func assertValidationError(t *testing.T, err error, message string) {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrResourceNotFound, appErr.Code)
	assert.Equal(t, "Not found", appErr.Message)
}

// TestCreatePost 测试创建帖子时的默认值和生成字段
func TestCreatePost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

	post, err := service.Create(context.Background(), PostInput{
		Author:  strPtr("  alice  "),
		Content: strPtr("hi"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "alice", post.Author)
	assert.Equal(t, "hi", post.Content)
	assert.Equal(t, model.VisibilityPublic, post.Visibility)
	assert.Equal(t, 0, post.Likes)
	assert.NotEmpty(t, post.ID)
	assert.True(t, post.CreatedAt.Equal(post.UpdatedAt))

	// 再创建一条，ID 必须不同
	second, err := service.Create(context.Background(), PostInput{
		Author:  strPtr("bob"),
		Content: strPtr("hello"),
	})
	assert.NoError(t, err)
	assert.NotEqual(t, post.ID, second.ID)

	mockRepo.AssertExpectations(t)
}

// TestCreatePostVisibilityFallback 测试非法可见范围静默回退到 PUBLIC
func TestCreatePostVisibilityFallback(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

	post, err := service.Create(context.Background(), PostInput{
		Author:     strPtr("alice"),
		Content:    strPtr("hi"),
		Visibility: strPtr("whatever"),
	})
	assert.NoError(t, err)
	assert.Equal(t, model.VisibilityPublic, post.Visibility)

	// 大小写不敏感
	post, err = service.Create(context.Background(), PostInput{
		Author:     strPtr("alice"),
		Content:    strPtr("hi"),
		Visibility: strPtr("private"),
	})
	assert.NoError(t, err)
	assert.Equal(t, model.VisibilityPrivate, post.Visibility)
}

// TestCreatePostValidation 测试创建时的校验规则
func TestCreatePostValidation(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	_, err := service.Create(context.Background(), PostInput{
		Content: strPtr("hi"),
	})
	assertValidationError(t, err, "author is required")

	_, err = service.Create(context.Background(), PostInput{
		Author:  strPtr("   "),
		Content: strPtr("hi"),
	})
	assertValidationError(t, err, "author is required")

	_, err = service.Create(context.Background(), PostInput{
		Author: strPtr("alice"),
	})
	assertValidationError(t, err, "content is required")

	_, err = service.Create(context.Background(), PostInput{
		Author:  strPtr("alice"),
		Content: strPtr("hi"),
		Likes:   rawJSON(`-1`),
	})
	assertValidationError(t, err, "likes must be an integer >= 0")

	_, err = service.Create(context.Background(), PostInput{
		Author:  strPtr("alice"),
		Content: strPtr("hi"),
		Likes:   rawJSON(`1.5`),
	})
	assertValidationError(t, err, "likes must be an integer >= 0")

	_, err = service.Create(context.Background(), PostInput{
		Author:  strPtr("alice"),
		Content: strPtr("hi"),
		Likes:   rawJSON(`"abc"`),
	})
	assertValidationError(t, err, "likes must be an integer >= 0")

	// 校验失败时不应该有任何写入
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestLikesNullFallback 测试 likes 为 JSON null 时等同于字段缺失
func TestLikesNullFallback(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

	post, err := service.Create(context.Background(), PostInput{
		Author:  strPtr("alice"),
		Content: strPtr("hi"),
		Likes:   rawJSON(`null`),
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, post.Likes)

	existing := &model.Post{
		ID:         "post-1",
		Author:     "alice",
		Content:    "hi",
		Visibility: model.VisibilityPublic,
		Likes:      7,
	}
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(true, nil)

	updated, err := service.Update(context.Background(), "post-1", PostInput{
		Likes: rawJSON(`null`),
	})
	assert.NoError(t, err)
	assert.Equal(t, 7, updated.Likes)
}

// TestUpdatePostFallback 测试缺失字段回退到已存储的值
func TestUpdatePostFallback(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	createdAt := time.Now().UTC().Add(-time.Hour)
	existing := &model.Post{
		ID:         "post-1",
		Author:     "alice",
		Content:    "hi",
		Visibility: model.VisibilityFriends,
		Likes:      2,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	var saved *model.Post
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Post) }).
		Return(true, nil)

	post, err := service.Update(context.Background(), "post-1", PostInput{
		Content: strPtr("updated"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "updated", post.Content)
	// 未提交的字段保持原值
	assert.Equal(t, "alice", post.Author)
	assert.Equal(t, model.VisibilityFriends, post.Visibility)
	assert.Equal(t, 2, post.Likes)
	// createdAt 不变，updatedAt 被刷新
	assert.True(t, post.CreatedAt.Equal(createdAt))
	assert.True(t, post.UpdatedAt.After(createdAt))
	assert.Equal(t, post, saved)

	mockRepo.AssertExpectations(t)
}

// TestUpdatePostExplicitEmpty 测试显式传空串不回退而是校验失败
func TestUpdatePostExplicitEmpty(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	existing := &model.Post{
		ID:         "post-1",
		Author:     "alice",
		Content:    "hi",
		Visibility: model.VisibilityPublic,
		Likes:      0,
	}
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(existing, nil)

	_, err := service.Update(context.Background(), "post-1", PostInput{
		Author: strPtr(""),
	})
	assertValidationError(t, err, "author is required")

	_, err = service.Update(context.Background(), "post-1", PostInput{
		Content: strPtr("   "),
	})
	assertValidationError(t, err, "content is required")

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUpdatePostVisibilityFallback 测试更新时非法可见范围回退到原值
func TestUpdatePostVisibilityFallback(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	existing := &model.Post{
		ID:         "post-1",
		Author:     "alice",
		Content:    "hi",
		Visibility: model.VisibilityFriends,
		Likes:      0,
	}
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(true, nil)

	post, err := service.Update(context.Background(), "post-1", PostInput{
		Visibility: strPtr("bogus"),
	})
	assert.NoError(t, err)
	assert.Equal(t, model.VisibilityFriends, post.Visibility)
}

// TestUpdatePostNotFound 测试更新不存在的帖子
func TestUpdatePostNotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	mockRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	_, err := service.Update(context.Background(), "missing", PostInput{
		Author: strPtr("alice"),
	})
	assertNotFoundError(t, err)

	// 读取和写入之间被并发删除时同样报告未找到
	existing := &model.Post{
		ID: "post-1", Author: "alice", Content: "hi",
		Visibility: model.VisibilityPublic,
	}
	mockRepo.On("FindByID", mock.Anything, "post-1").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(false, nil)

	_, err = service.Update(context.Background(), "post-1", PostInput{})
	assertNotFoundError(t, err)
}

// TestDeletePost 测试删除帖子，重复删除返回未找到
func TestDeletePost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo)

	mockRepo.On("Delete", mock.Anything, "post-1").Return(true, nil).Once()
	mockRepo.On("Delete", mock.Anything, "post-1").Return(false, nil).Once()

	err := service.Delete(context.Background(), "post-1")
	assert.NoError(t, err)

	err = service.Delete(context.Background(), "post-1")
	assertNotFoundError(t, err)

	mockRepo.AssertExpectations(t)
}
