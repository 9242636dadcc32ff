package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/aidka-pyramidka/post-in-a-social-media/internal/model"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/util"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// postDoc 是帖子在 MongoDB 中的文档形式
type postDoc struct {
	ID         string    `bson:"_id"`
	Author     string    `bson:"author"`
	Content    string    `bson:"content"`
	Visibility string    `bson:"visibility"`
	Likes      int       `bson:"likes"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

type postRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewPostRepository(ctx context.Context, uri, database, collectionName string) (*postRepository, error) {
	opts := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &postRepository{
		client:     client,
		collection: client.Database(database).Collection(collectionName),
	}, nil
}

// Close 断开 MongoDB 连接
func (r *postRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		util.Logger.Error("查询帖子列表失败", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*model.Post
	for cursor.Next(ctx) {
		var doc postDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		posts = append(posts, doc.toPost())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var doc postDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return doc.toPost(), nil
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	_, err := r.collection.InsertOne(ctx, fromPost(post))
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID))
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) (bool, error) {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, fromPost(post))
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.String("post_id", post.ID))
		return false, err
	}

	return result.MatchedCount > 0, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.String("post_id", id))
		return false, err
	}

	return result.DeletedCount > 0, nil
}

func (d *postDoc) toPost() *model.Post {
	return &model.Post{
		ID:         d.ID,
		Author:     d.Author,
		Content:    d.Content,
		Visibility: model.Visibility(d.Visibility),
		Likes:      d.Likes,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func fromPost(p *model.Post) *postDoc {
	return &postDoc{
		ID:         p.ID,
		Author:     p.Author,
		Content:    p.Content,
		Visibility: string(p.Visibility),
		Likes:      p.Likes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
