package post

import (
	"net/http"

	"github.com/aidka-pyramidka/post-in-a-social-media/internal/errors"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/model"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/service"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 如果没有帖子，返回空数组而不是 null
	if posts == nil {
		posts = []*model.Post{}
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var input service.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Error("无效的帖子数据", zap.Error(err))
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid request body"))
		return
	}

	post, err := h.postService.Create(c.Request.Context(), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	var input service.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Error("无效的帖子数据", zap.Error(err))
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid request body"))
		return
	}

	post, err := h.postService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
