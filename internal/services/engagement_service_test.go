package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestTogglePostLike_LikeThenUnlike(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("author")
	liker := f.users.add("liker")
	postID := f.posts.add(author.ID, "a post")

	result, err := f.engagementSvc.TogglePostLike(ctx, liker.ID, postID)
	req.NoError(err)
	req.True(result.IsLiked)
	req.EqualValues(1, result.LikesCount)

	// The author gets a like notification
	page, err := f.notificationSvc.Page(author.ID, 1, 20, false)
	req.NoError(err)
	req.Len(page.Items, 1)
	req.Equal(models.NotificationLike, page.Items[0].Type)
	req.Equal(`liker liked your post "a post"`, page.Items[0].Message)

	// Unlike flips back and removes the notification
	result, err = f.engagementSvc.TogglePostLike(ctx, liker.ID, postID)
	req.NoError(err)
	req.False(result.IsLiked)
	req.EqualValues(0, result.LikesCount)

	page, err = f.notificationSvc.Page(author.ID, 1, 20, false)
	req.NoError(err)
	req.Empty(page.Items)
}

func TestTogglePostLike_SelfLikeNotNotified(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("author")
	postID := f.posts.add(author.ID, "own post")

	result, err := f.engagementSvc.TogglePostLike(ctx, author.ID, postID)
	req.NoError(err)
	req.True(result.IsLiked)
	req.Empty(f.notifications.rows)
}

func TestTogglePostLike_UnknownPost(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	liker := f.users.add("liker")

	_, err := f.engagementSvc.TogglePostLike(context.Background(), liker.ID, "missing")
	req.ErrorIs(err, ErrNotFound)
}

func TestTogglePostLike_CountsPerUser(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("author")
	postID := f.posts.add(author.ID, "popular")

	for i := 0; i < 3; i++ {
		u := f.users.add("fan" + strconv.Itoa(i))
		result, err := f.engagementSvc.TogglePostLike(ctx, u.ID, postID)
		req.NoError(err)
		req.EqualValues(i+1, result.LikesCount)
	}
}

func TestToggleCommentLike_LikeThenUnlike(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("author")
	commenter := f.users.add("commenter")
	liker := f.users.add("liker")
	postID := f.posts.add(author.ID, "a post")

	view, err := f.commentSvc.Create(ctx, commenter.ID, &models.CreateCommentRequest{PostID: postID, Body: "nice"})
	req.NoError(err)

	result, err := f.engagementSvc.ToggleCommentLike(liker.ID, view.ID)
	req.NoError(err)
	req.True(result.IsLiked)
	req.EqualValues(1, result.LikesCount)

	// Commenter is notified
	count, err := f.notificationSvc.UnreadCount(commenter.ID)
	req.NoError(err)
	req.EqualValues(1, count)

	result, err = f.engagementSvc.ToggleCommentLike(liker.ID, view.ID)
	req.NoError(err)
	req.False(result.IsLiked)
	req.EqualValues(0, result.LikesCount)

	count, err = f.notificationSvc.UnreadCount(commenter.ID)
	req.NoError(err)
	req.EqualValues(0, count)
}

func TestToggleCommentLike_DeletedComment(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("author")
	liker := f.users.add("liker")
	postID := f.posts.add(author.ID, "a post")

	view, err := f.commentSvc.Create(ctx, author.ID, &models.CreateCommentRequest{PostID: postID, Body: "gone soon"})
	req.NoError(err)
	req.NoError(f.commentSvc.Delete(author.ID, false, view.ID))

	_, err = f.engagementSvc.ToggleCommentLike(liker.ID, view.ID)
	req.ErrorIs(err, ErrNotFound)
}
