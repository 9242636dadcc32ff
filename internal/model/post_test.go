package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseVisibility 测试可见范围解析和回退
func TestParseVisibility(t *testing.T) {
	assert.Equal(t, VisibilityPublic, ParseVisibility("PUBLIC", VisibilityPrivate))
	assert.Equal(t, VisibilityFriends, ParseVisibility("friends", VisibilityPublic))
	assert.Equal(t, VisibilityPrivate, ParseVisibility("  Private  ", VisibilityPublic))

	// 非法或缺失的输入回退到 fallback
	assert.Equal(t, VisibilityPublic, ParseVisibility("", VisibilityPublic))
	assert.Equal(t, VisibilityFriends, ParseVisibility("bogus", VisibilityFriends))
	assert.Equal(t, VisibilityPublic, ParseVisibility("PUBLICX", VisibilityPublic))
}
