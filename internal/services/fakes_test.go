package services

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/realtime"
	"github.com/ardenlow/pulsegram/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mimic the relational semantics the
// Postgres implementations rely on (unique pairs, soft-delete rules,
// newest-first ordering) so service behavior can be exercised without a
// database.

type fakeUsers struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uint]*models.User), nextID: 1}
}

func (f *fakeUsers) add(username string) *models.User {
	u := &models.User{ID: f.nextID, Username: username, Email: username + "@example.com"}
	f.users[u.ID] = u
	f.nextID++
	return u
}

func (f *fakeUsers) CreateUser(user *models.User) error {
	user.ID = f.nextID
	f.users[user.ID] = user
	f.nextID++
	return nil
}

func (f *fakeUsers) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range f.users {
		if u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) UpdateUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) SearchUsers(query string) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUsers) GetSuggestedUsers(excludeIDs []uint, limit int) ([]models.User, error) {
	excluded := make(map[uint]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.User
	for _, u := range f.users {
		if !excluded[u.ID] {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeFollows struct {
	edges []models.Follow
}

func newFakeFollows() *fakeFollows { return &fakeFollows{} }

func (f *fakeFollows) ToggleFollow(followerID, followingID uint) (bool, bool, error) {
	for i, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return false, false, nil
		}
	}
	f.edges = append(f.edges, models.Follow{FollowerID: followerID, FollowingID: followingID, CreatedAt: time.Now()})
	return true, true, nil
}

func (f *fakeFollows) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollows) GetFollowers(userID uint, offset, limit int) ([]models.User, error) {
	var out []models.User
	for _, e := range f.edges {
		if e.FollowingID == userID {
			out = append(out, models.User{ID: e.FollowerID})
		}
	}
	return pageSlice(out, offset, limit), nil
}

func (f *fakeFollows) GetFollowing(userID uint, offset, limit int) ([]models.User, error) {
	var out []models.User
	for _, e := range f.edges {
		if e.FollowerID == userID {
			out = append(out, models.User{ID: e.FollowingID})
		}
	}
	return pageSlice(out, offset, limit), nil
}

func (f *fakeFollows) GetFollowersCount(userID uint) (int64, error) {
	var n int64
	for _, e := range f.edges {
		if e.FollowingID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollows) GetFollowingCount(userID uint) (int64, error) {
	var n int64
	for _, e := range f.edges {
		if e.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollows) GetFollowingIDs(userID uint) ([]uint, error) {
	var out []uint
	for _, e := range f.edges {
		if e.FollowerID == userID {
			out = append(out, e.FollowingID)
		}
	}
	return out, nil
}

func pageSlice(users []models.User, offset, limit int) []models.User {
	if offset >= len(users) {
		return nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end]
}

type fakeLikes struct {
	marks map[string]map[uint]bool // postID -> userID set
}

func newFakeLikes() *fakeLikes {
	return &fakeLikes{marks: make(map[string]map[uint]bool)}
}

func (f *fakeLikes) ToggleLike(postID string, userID uint) (bool, int64, error) {
	set := f.marks[postID]
	if set == nil {
		set = make(map[uint]bool)
		f.marks[postID] = set
	}
	liked := !set[userID]
	if liked {
		set[userID] = true
	} else {
		delete(set, userID)
	}
	return liked, int64(len(set)), nil
}

func (f *fakeLikes) GetLikesCountByPostID(postID string) (int64, error) {
	return int64(len(f.marks[postID])), nil
}

func (f *fakeLikes) HasUserLikedPost(postID string, userID uint) (bool, error) {
	return f.marks[postID][userID], nil
}

type fakeCommentLikes struct {
	marks map[uint]map[uint]bool // commentID -> userID set
}

func newFakeCommentLikes() *fakeCommentLikes {
	return &fakeCommentLikes{marks: make(map[uint]map[uint]bool)}
}

func (f *fakeCommentLikes) ToggleLike(commentID, userID uint) (bool, int64, error) {
	set := f.marks[commentID]
	if set == nil {
		set = make(map[uint]bool)
		f.marks[commentID] = set
	}
	liked := !set[userID]
	if liked {
		set[userID] = true
	} else {
		delete(set, userID)
	}
	return liked, int64(len(set)), nil
}

func (f *fakeCommentLikes) HasUserLikedComment(commentID, userID uint) (bool, error) {
	return f.marks[commentID][userID], nil
}

func (f *fakeCommentLikes) GetLikesCount(commentID uint) (int64, error) {
	return int64(len(f.marks[commentID])), nil
}

type fakeNotifications struct {
	rows   []models.Notification
	nextID uint
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{nextID: 1}
}

func (f *fakeNotifications) CreateNotification(n *models.Notification) error {
	n.ID = f.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.nextID++
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotifications) forRecipient(recipientID uint, unreadOnly bool) []models.Notification {
	var out []models.Notification
	for _, n := range f.rows {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	// newest first
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeNotifications) GetByRecipientID(recipientID uint, page, limit int, unreadOnly bool) ([]models.Notification, int64, error) {
	all := f.forRecipient(recipientID, unreadOnly)
	total := int64(len(all))
	offset := (page - 1) * limit
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeNotifications) GetUnreadCount(recipientID uint) (int64, error) {
	return int64(len(f.forRecipient(recipientID, true))), nil
}

func (f *fakeNotifications) MarkAsRead(notificationID, recipientID uint) error {
	for i := range f.rows {
		if f.rows[i].ID == notificationID && f.rows[i].RecipientID == recipientID {
			f.rows[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotifications) MarkAllAsRead(recipientID uint) error {
	for i := range f.rows {
		if f.rows[i].RecipientID == recipientID {
			f.rows[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotifications) DeleteNotification(notificationID, recipientID uint) error {
	for i, n := range f.rows {
		if n.ID == notificationID && n.RecipientID == recipientID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotifications) DeleteByTarget(targetID, targetType string) error {
	kept := f.rows[:0]
	for _, n := range f.rows {
		if n.TargetID == targetID && n.TargetType == targetType {
			continue
		}
		kept = append(kept, n)
	}
	f.rows = kept
	return nil
}

func (f *fakeNotifications) DeleteMatching(recipientID, actorID uint, notifType, targetID string) error {
	kept := f.rows[:0]
	for _, n := range f.rows {
		match := n.RecipientID == recipientID && n.ActorID == actorID && n.Type == notifType
		if match && targetID != "" {
			match = n.TargetID == targetID
		}
		if match {
			continue
		}
		kept = append(kept, n)
	}
	f.rows = kept
	return nil
}

type fakeComments struct {
	comments map[uint]*models.Comment
	nextID   uint
	// mirrors the Postgres repository behavior of purging comment
	// notifications inside the soft-delete transaction
	notifications *fakeNotifications
}

func newFakeComments(notifications *fakeNotifications) *fakeComments {
	return &fakeComments{comments: make(map[uint]*models.Comment), nextID: 1, notifications: notifications}
}

func (f *fakeComments) CreateComment(comment *models.Comment) error {
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	f.nextID++
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeComments) GetCommentByID(id uint) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeComments) GetTopLevelByPostID(postID string, offset, limit int) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID && c.ParentCommentID == nil {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeComments) CountTopLevelByPostID(postID string) (int64, error) {
	var n int64
	for _, c := range f.comments {
		if c.PostID == postID && c.ParentCommentID == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeComments) GetReplies(parentCommentID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == parentCommentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeComments) CountActiveByPostID(postID string) (int64, error) {
	var n int64
	for _, c := range f.comments {
		if c.PostID == postID && !c.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (f *fakeComments) UpdateComment(comment *models.Comment) error {
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeComments) SoftDeleteComment(id uint) error {
	c, ok := f.comments[id]
	if !ok || c.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	c.IsDeleted = true
	c.Body = models.DeletedCommentBody
	if f.notifications != nil {
		f.notifications.DeleteByTarget(strconv.FormatUint(uint64(id), 10), models.TargetComment)
	}
	return nil
}

type fakePosts struct {
	posts map[string]*models.Post
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: make(map[string]*models.Post)}
}

func (f *fakePosts) add(authorID uint, title string) string {
	oid := primitive.NewObjectID()
	f.posts[oid.Hex()] = &models.Post{ID: oid, AuthorID: authorID, Title: title, Body: "body", CreatedAt: time.Now()}
	return oid.Hex()
}

func (f *fakePosts) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	stored := *post
	f.posts[post.ID.Hex()] = &stored
	return nil
}

func (f *fakePosts) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePosts) GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePosts) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePosts) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	stored := *post
	f.posts[id] = &stored
	return nil
}

func (f *fakePosts) DeletePost(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

// fakeCascade performs the same purge as the Postgres cascade, against
// the in-memory stores: comment likes and comment notifications for
// every comment on the post, then post notifications, post likes and
// the comments themselves.
type fakeCascade struct {
	purged        []string
	comments      *fakeComments
	commentLikes  *fakeCommentLikes
	likes         *fakeLikes
	notifications *fakeNotifications
}

func (f *fakeCascade) PurgePost(postID string) error {
	f.purged = append(f.purged, postID)
	for id, c := range f.comments.comments {
		if c.PostID != postID {
			continue
		}
		delete(f.commentLikes.marks, id)
		f.notifications.DeleteByTarget(strconv.FormatUint(uint64(id), 10), models.TargetComment)
		delete(f.comments.comments, id)
	}
	f.notifications.DeleteByTarget(postID, models.TargetPost)
	delete(f.likes.marks, postID)
	return nil
}

// recordingDispatcher captures published events per recipient
type recordingDispatcher struct {
	events map[uint][]realtime.Event
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{events: make(map[uint][]realtime.Event)}
}

func (d *recordingDispatcher) Publish(recipientID uint, event realtime.Event) {
	d.events[recipientID] = append(d.events[recipientID], event)
}

// fixture bundles the fakes plus fully wired services
type fixture struct {
	users         *fakeUsers
	follows       *fakeFollows
	likes         *fakeLikes
	commentLikes  *fakeCommentLikes
	comments      *fakeComments
	notifications *fakeNotifications
	posts         *fakePosts
	cascade       *fakeCascade
	dispatcher    *recordingDispatcher

	notificationSvc *NotificationService
	relationshipSvc *RelationshipService
	engagementSvc   *EngagementService
	commentSvc      *CommentService
	postSvc         *PostService
}

func newFixture() *fixture {
	f := &fixture{
		users:         newFakeUsers(),
		follows:       newFakeFollows(),
		likes:         newFakeLikes(),
		commentLikes:  newFakeCommentLikes(),
		notifications: newFakeNotifications(),
		posts:         newFakePosts(),
		dispatcher:    newRecordingDispatcher(),
	}
	f.comments = newFakeComments(f.notifications)
	f.cascade = &fakeCascade{
		comments:      f.comments,
		commentLikes:  f.commentLikes,
		likes:         f.likes,
		notifications: f.notifications,
	}
	f.notificationSvc = NewNotificationService(f.notifications, f.users, f.dispatcher)
	f.relationshipSvc = NewRelationshipService(f.follows, f.users, f.notificationSvc)
	f.engagementSvc = NewEngagementService(f.likes, f.commentLikes, f.posts, f.comments, f.users, f.notificationSvc)
	f.commentSvc = NewCommentService(f.comments, f.commentLikes, f.posts, f.users, f.notificationSvc)
	f.postSvc = NewPostService(f.posts, f.users, f.likes, f.comments, f.cascade)
	return f
}
