package service

import (
	"context"
	"log/slog"

	"inkwell/internal/authz"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// PostsPerPage is the fixed page size of the posts feed.
const PostsPerPage = 2

// keepImageSentinel is the literal string clients send for the image field
// when editing a post without touching its image.
const keepImageSentinel = "undefined"

type PostService struct {
	postRepo repository.PostRepository
	images   *ImageService
}

type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// PostPage is one page of the feed plus the total post count, so clients can
// render pagination controls.
type PostPage struct {
	Posts      []*models.Post `json:"posts"`
	TotalPosts int64          `json:"totalPosts"`
}

func NewPostService(postRepo repository.PostRepository, images *ImageService) *PostService {
	return &PostService{postRepo: postRepo, images: images}
}

func (s *PostService) validateInput(in PostInput) error {
	if messages := validation.Collect(
		validation.ValidateTitle(in.Title),
		validation.ValidateContent(in.Content),
	); messages != nil {
		return models.NewValidationError(messages...)
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, id authz.Identity, in PostInput) (*models.Post, error) {
	if err := authz.RequireAuthenticated(id); err != nil {
		return nil, err
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		CreatorID: id.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns one page of posts, newest first. Page numbers are 1-based;
// anything below 1 falls back to the first page.
func (s *PostService) List(ctx context.Context, id authz.Identity, page int) (*PostPage, error) {
	if err := authz.RequireAuthenticated(id); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	posts, total, err := s.postRepo.ListPage(ctx, page, PostsPerPage)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return &PostPage{Posts: posts, TotalPosts: total}, nil
}

func (s *PostService) Get(ctx context.Context, id authz.Identity, postID uint) (*models.Post, error) {
	if err := authz.RequireAuthenticated(id); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Update edits a post owned by the caller. The image is only replaced when
// the client sends a real value; the keep-image sentinel leaves it alone and
// a replacement removes the old file from storage.
func (s *PostService) Update(ctx context.Context, id authz.Identity, postID uint, in PostInput) (*models.Post, error) {
	if err := authz.RequireAuthenticated(id); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(id, post.CreatorID); err != nil {
		return nil, err
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	oldImage := post.ImageURL
	post.Title = in.Title
	post.Content = in.Content
	if in.ImageURL != keepImageSentinel {
		post.ImageURL = in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if s.images != nil && oldImage != "" && oldImage != post.ImageURL {
		if err := s.images.Clear(oldImage); err != nil {
			slog.WarnContext(ctx, "failed to remove replaced post image",
				slog.Uint64("post_id", uint64(post.ID)),
				slog.String("image", oldImage),
				slog.String("error", err.Error()),
			)
		}
	}

	return post, nil
}

// Delete removes a post owned by the caller. Deleting the record is the
// authoritative step; image cleanup afterwards is best-effort and a failure
// there does not undo the deletion.
func (s *PostService) Delete(ctx context.Context, id authz.Identity, postID uint) error {
	if err := authz.RequireAuthenticated(id); err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(id, post.CreatorID); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if s.images != nil && post.ImageURL != "" {
		if err := s.images.Clear(post.ImageURL); err != nil {
			slog.WarnContext(ctx, "failed to remove deleted post image",
				slog.Uint64("post_id", uint64(postID)),
				slog.String("image", post.ImageURL),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
