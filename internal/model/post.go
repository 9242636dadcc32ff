package model

import (
	"strings"
	"time"
)

// Visibility 表示帖子的可见范围
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityFriends Visibility = "FRIENDS"
	VisibilityPrivate Visibility = "PRIVATE"
)

// ParseVisibility 解析可见范围，非法输入返回 fallback
func ParseVisibility(raw string, fallback Visibility) Visibility {
	switch Visibility(strings.ToUpper(strings.TrimSpace(raw))) {
	case VisibilityPublic:
		return VisibilityPublic
	case VisibilityFriends:
		return VisibilityFriends
	case VisibilityPrivate:
		return VisibilityPrivate
	default:
		return fallback
	}
}

type Post struct {
	ID         string     `json:"id"`
	Author     string     `json:"author"`
	Content    string     `json:"content"`
	Visibility Visibility `json:"visibility"`
	Likes      int        `json:"likes"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
