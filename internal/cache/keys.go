package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix     = "user:%d"
	postKeyPrefix     = "post:%d"
	postsPagePrefix   = "posts:page:%d"
	postsCountKeyName = "posts:count"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 10 * time.Minute
	PostsPageTTL = 1 * time.Minute
)

// maxCachedPages bounds how many list pages are kept; only the first few
// pages are hot enough to matter and invalidation stays cheap.
const maxCachedPages = 5

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func PostsPageKey(page int) string {
	return fmt.Sprintf(postsPagePrefix, page)
}

func PostsCountKey() string {
	return postsCountKeyName
}

// CacheablePage reports whether a list page is worth caching.
func CacheablePage(page int) bool {
	return page >= 1 && page <= maxCachedPages
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePostsList drops all cached list pages and the total count. Called
// after any post write since every page may shift.
func InvalidatePostsList(ctx context.Context) {
	for page := 1; page <= maxCachedPages; page++ {
		Invalidate(ctx, PostsPageKey(page))
	}
	Invalidate(ctx, postsCountKeyName)
}
