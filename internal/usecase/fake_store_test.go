package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ferdian3456/devblog/internal/constant"
	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/google/uuid"
)

var errInjected = errors.New("injected failure")

type fakeCommentStore struct {
	mu       sync.RWMutex
	comments []model.Comment
	clock    time.Time

	// failDeleteAfter makes the n-th DeleteCommentById call fail; 0 disables it.
	failDeleteAfter int
	deleteCalls     int
	failList        bool
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (store *fakeCommentStore) InsertComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return comment, err
	}

	store.clock = store.clock.Add(time.Second)
	comment.Id = id
	comment.CreateDatetime = store.clock
	store.comments = append(store.comments, comment)

	return comment, nil
}

func (store *fakeCommentStore) ListCommentsByPost(ctx context.Context, postId uuid.UUID) ([]model.Comment, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.failList {
		return nil, errInjected
	}

	comments := []model.Comment{}
	for _, comment := range store.comments {
		if comment.PostId == postId {
			comments = append(comments, comment)
		}
	}

	return comments, nil
}

func (store *fakeCommentStore) GetCommentById(ctx context.Context, commentId uuid.UUID) (model.Comment, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, comment := range store.comments {
		if comment.Id == commentId {
			return comment, nil
		}
	}

	return model.Comment{}, &model.NotFoundError{
		Code:    constant.ERR_NOT_FOUND_ERROR,
		Message: "Comment not found",
		Param:   "commentId",
	}
}

func (store *fakeCommentStore) DeleteCommentById(ctx context.Context, commentId uuid.UUID) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.deleteCalls++
	if store.failDeleteAfter > 0 && store.deleteCalls >= store.failDeleteAfter {
		return errInjected
	}

	for i, comment := range store.comments {
		if comment.Id == commentId {
			store.comments = append(store.comments[:i], store.comments[i+1:]...)
			return nil
		}
	}

	return &model.NotFoundError{
		Code:    constant.ERR_NOT_FOUND_ERROR,
		Message: "Comment not found",
		Param:   "commentId",
	}
}

// WithinTx restores the snapshot taken before fn when fn fails.
func (store *fakeCommentStore) WithinTx(ctx context.Context, fn func(store repository.CommentStore) error) error {
	store.mu.RLock()
	snapshot := append([]model.Comment(nil), store.comments...)
	store.mu.RUnlock()

	err := fn(store)
	if err != nil {
		store.mu.Lock()
		store.comments = snapshot
		store.mu.Unlock()
		return err
	}

	return nil
}

func (store *fakeCommentStore) all() []model.Comment {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return append([]model.Comment(nil), store.comments...)
}

type likeKey struct {
	postId uuid.UUID
	userId uuid.UUID
}

type fakeLikeStore struct {
	mu        sync.RWMutex
	likes     map[likeKey]model.PostLike
	failCount bool
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{
		likes: map[likeKey]model.PostLike{},
	}
}

func (store *fakeLikeStore) InsertLike(ctx context.Context, like model.PostLike) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := likeKey{postId: like.PostId, userId: like.UserId}
	if _, ok := store.likes[key]; !ok {
		store.likes[key] = like
	}

	return nil
}

func (store *fakeLikeStore) DeleteLike(ctx context.Context, postId uuid.UUID, userId uuid.UUID) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := likeKey{postId: postId, userId: userId}
	if _, ok := store.likes[key]; !ok {
		return false, nil
	}

	delete(store.likes, key)
	return true, nil
}

func (store *fakeLikeStore) CheckLike(ctx context.Context, postId uuid.UUID, userId uuid.UUID) (bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	_, ok := store.likes[likeKey{postId: postId, userId: userId}]
	return ok, nil
}

func (store *fakeLikeStore) CountLikes(ctx context.Context, postId uuid.UUID) (int64, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.failCount {
		return 0, errInjected
	}

	var count int64
	for key := range store.likes {
		if key.postId == postId {
			count++
		}
	}

	return count, nil
}

func (store *fakeLikeStore) WithinTx(ctx context.Context, fn func(store repository.LikeStore) error) error {
	store.mu.RLock()
	snapshot := make(map[likeKey]model.PostLike, len(store.likes))
	for key, like := range store.likes {
		snapshot[key] = like
	}
	store.mu.RUnlock()

	err := fn(store)
	if err != nil {
		store.mu.Lock()
		store.likes = snapshot
		store.mu.Unlock()
		return err
	}

	return nil
}

type fakePostLookup struct {
	authors map[uuid.UUID]uuid.UUID
}

func (lookup *fakePostLookup) GetPostAuthor(ctx context.Context, postId uuid.UUID) (uuid.UUID, error) {
	authorId, ok := lookup.authors[postId]
	if !ok {
		return uuid.Nil, &model.NotFoundError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Post not found",
			Param:   "postId",
		}
	}

	return authorId, nil
}

type fakeUsernameResolver struct {
	usernames map[uuid.UUID]string
	fail      bool
	calls     int
}

func (resolver *fakeUsernameResolver) ResolveUsernames(ctx context.Context, userIds []uuid.UUID) (map[uuid.UUID]string, error) {
	resolver.calls++
	if resolver.fail {
		return nil, errInjected
	}

	result := map[uuid.UUID]string{}
	for _, id := range userIds {
		if username, ok := resolver.usernames[id]; ok {
			result[id] = username
		}
	}

	return result, nil
}

type replyNotification struct {
	parent model.Comment
	reply  model.Comment
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []replyNotification
}

func (notifier *fakeNotifier) NotifyReply(parent model.Comment, reply model.Comment) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	notifier.sent = append(notifier.sent, replyNotification{parent: parent, reply: reply})
}
