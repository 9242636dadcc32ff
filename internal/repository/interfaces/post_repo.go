package interfaces

import (
	"context"

	"github.com/aidka-pyramidka/post-in-a-social-media/internal/model"
)

// PostRepository 定义了帖子相关的数据库操作接口。
// FindByID 在记录不存在时返回 (nil, nil)；
// Update 和 Delete 返回是否命中了记录。
type PostRepository interface {
	FindAll(ctx context.Context) ([]*model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
