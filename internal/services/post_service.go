package services

import (
	"context"
	"errors"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/repositories"
)

// PostService owns post CRUD and the cascade that post deletion fans out
// to. Posts live in MongoDB; everything hanging off them (likes,
// comments, notifications) lives in PostgreSQL and is purged as one
// transactional unit before the document goes away.
type PostService struct {
	posts    repositories.PostRepository
	users    repositories.UserRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	cascade  repositories.CascadeRepository
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	cascadeRepo repositories.CascadeRepository,
) *PostService {
	return &PostService{
		posts:    postRepo,
		users:    userRepo,
		likes:    likeRepo,
		comments: commentRepo,
		cascade:  cascadeRepo,
	}
}

// Create persists a new post authored by the actor
func (s *PostService) Create(ctx context.Context, actorID uint, req *models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		AuthorID: actorID,
		Title:    req.Title,
		Body:     req.Body,
		Tags:     req.Tags,
		Image:    req.Image,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns one post enriched with author, live counts and the
// viewer's like state. viewerID of zero means anonymous.
func (s *PostService) Get(ctx context.Context, postID string, viewerID uint) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.enrich(post, viewerID)
}

// List returns a page of all posts, newest first
func (s *PostService) List(ctx context.Context, viewerID uint, page, limit int) ([]models.PostView, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	posts, err := s.posts.GetAllPosts(ctx, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, err
	}
	return s.enrichAll(posts, viewerID)
}

// ListByAuthor returns a page of one author's posts, newest first
func (s *PostService) ListByAuthor(ctx context.Context, authorID, viewerID uint, page, limit int) ([]models.PostView, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	posts, err := s.posts.GetPostsByAuthorID(ctx, authorID, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, err
	}
	return s.enrichAll(posts, viewerID)
}

// Update overwrites the mutable fields of a post; author only
func (s *PostService) Update(ctx context.Context, actorID uint, postID string, req *models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, ErrForbidden
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Body != "" {
		post.Body = req.Body
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.Image != "" {
		post.Image = req.Image
	}

	if err := s.posts.UpdatePost(ctx, postID, post); err != nil {
		return nil, err
	}
	return s.enrich(post, actorID)
}

// Delete removes a post and everything referencing it. The relational
// cascade (comments, comment likes, post likes, notifications for the
// post and its comments) commits first; only then is the document
// deleted, so a crash in between leaves no orphaned notification.
// Requires ownership or the elevated role.
func (s *PostService) Delete(ctx context.Context, actorID uint, isAdmin bool, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrNotFound
		}
		return err
	}
	if post.AuthorID != actorID && !isAdmin {
		return ErrForbidden
	}

	if err := s.cascade.PurgePost(postID); err != nil {
		return err
	}
	return s.posts.DeletePost(ctx, postID)
}

func (s *PostService) enrichAll(posts []models.Post, viewerID uint) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		view, err := s.enrich(&post, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *PostService) enrich(post *models.Post, viewerID uint) (*models.PostView, error) {
	view := &models.PostView{Post: *post}

	if author, err := s.users.GetUserByID(post.AuthorID); err == nil {
		view.Author = author.ToCompact()
	}

	postID := post.ID.Hex()
	likes, err := s.likes.GetLikesCountByPostID(postID)
	if err != nil {
		return nil, err
	}
	view.LikesCount = likes

	comments, err := s.comments.CountActiveByPostID(postID)
	if err != nil {
		return nil, err
	}
	view.CommentsCount = comments

	if viewerID != 0 {
		liked, err := s.likes.HasUserLikedPost(postID, viewerID)
		if err != nil {
			return nil, err
		}
		view.IsLiked = liked
	}
	return view, nil
}
