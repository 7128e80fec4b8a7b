// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListPage(ctx context.Context, page, perPage int) ([]*models.Post, int64, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)
	// Reload so the caller sees the creator relation alongside generated fields.
	if err := r.db.WithContext(ctx).Preload("Creator").First(post, post.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Creator").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("No post found.")
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListPage fetches one page of posts newest-first together with the total
// count. The first few pages are served from cache when possible.
func (r *postRepository) ListPage(ctx context.Context, page, perPage int) ([]*models.Post, int64, error) {
	offset := (page - 1) * perPage

	if !cache.CacheablePage(page) {
		posts, err := r.List(ctx, perPage, offset)
		if err != nil {
			return nil, 0, err
		}
		total, err := r.Count(ctx)
		if err != nil {
			return nil, 0, err
		}
		return posts, total, nil
	}

	var posts []*models.Post
	if err := cache.Aside(ctx, cache.PostsPageKey(page), &posts, cache.PostsPageTTL, func() error {
		fetched, err := r.List(ctx, perPage, offset)
		if err != nil {
			return err
		}
		posts = fetched
		return nil
	}); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := cache.Aside(ctx, cache.PostsCountKey(), &total, cache.PostsPageTTL, func() error {
		count, err := r.Count(ctx)
		if err != nil {
			return err
		}
		total = count
		return nil
	}); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}
