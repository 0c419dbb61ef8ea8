package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ferdian3456/devblog/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type commentFixture struct {
	usecase  *CommentUsecase
	store    *fakeCommentStore
	resolver *fakeUsernameResolver
	notifier *fakeNotifier
	postId   uuid.UUID
	alice    uuid.UUID
	bob      uuid.UUID
}

func newCommentFixture() *commentFixture {
	alice := uuid.New()
	bob := uuid.New()
	postId := uuid.New()

	store := newFakeCommentStore()
	posts := &fakePostLookup{authors: map[uuid.UUID]uuid.UUID{postId: alice}}
	resolver := &fakeUsernameResolver{usernames: map[uuid.UUID]string{alice: "alice", bob: "bob"}}
	notifier := &fakeNotifier{}

	return &commentFixture{
		usecase:  NewCommentUsecase(store, posts, resolver, notifier, zap.NewNop()),
		store:    store,
		resolver: resolver,
		notifier: notifier,
		postId:   postId,
		alice:    alice,
		bob:      bob,
	}
}

func (f *commentFixture) add(t *testing.T, author uuid.UUID, content string, parent *model.Comment) model.Comment {
	t.Helper()

	var parentId *uuid.UUID
	if parent != nil {
		parentId = &parent.Id
	}

	comment, err := f.usecase.AddComment(context.Background(), author, f.postId, content, parentId)
	require.NoError(t, err)
	return comment
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a top level comment", func(t *testing.T) {
		f := newCommentFixture()

		comment, err := f.usecase.AddComment(ctx, f.alice, f.postId, "hello", nil)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, comment.Id)
		assert.Equal(t, f.postId, comment.PostId)
		assert.Equal(t, f.alice, comment.AuthorId)
		assert.Nil(t, comment.ParentId)
		assert.Equal(t, "hello", comment.Content)
		assert.False(t, comment.CreateDatetime.IsZero())
	})

	t.Run("rejects whitespace content", func(t *testing.T) {
		f := newCommentFixture()

		_, err := f.usecase.AddComment(ctx, f.alice, f.postId, "   \n\t", nil)

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "content", validationErr.Param)
		assert.Empty(t, f.store.all())
	})

	t.Run("keeps content as submitted", func(t *testing.T) {
		f := newCommentFixture()

		comment, err := f.usecase.AddComment(ctx, f.alice, f.postId, "  padded  ", nil)
		require.NoError(t, err)
		assert.Equal(t, "  padded  ", comment.Content)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newCommentFixture()

		_, err := f.usecase.AddComment(ctx, f.alice, uuid.New(), "hello", nil)

		var notFoundErr *model.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "postId", notFoundErr.Param)
	})

	t.Run("missing parent", func(t *testing.T) {
		f := newCommentFixture()
		missing := uuid.New()

		_, err := f.usecase.AddComment(ctx, f.alice, f.postId, "reply", &missing)

		var notFoundErr *model.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "parentId", notFoundErr.Param)
		assert.Empty(t, f.store.all())
	})

	t.Run("parent on another post", func(t *testing.T) {
		f := newCommentFixture()
		otherPost := uuid.New()
		f.usecase.PostRepository.(*fakePostLookup).authors[otherPost] = f.bob

		other, err := f.usecase.AddComment(ctx, f.bob, otherPost, "elsewhere", nil)
		require.NoError(t, err)

		_, err = f.usecase.AddComment(ctx, f.alice, f.postId, "reply", &other.Id)

		var notFoundErr *model.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "parentId", notFoundErr.Param)
	})

	t.Run("reply to another author notifies", func(t *testing.T) {
		f := newCommentFixture()

		parent := f.add(t, f.alice, "question", nil)
		reply := f.add(t, f.bob, "answer", &parent)

		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, parent.Id, f.notifier.sent[0].parent.Id)
		assert.Equal(t, reply.Id, f.notifier.sent[0].reply.Id)
		require.NotNil(t, reply.ParentId)
		assert.Equal(t, parent.Id, *reply.ParentId)
	})

	t.Run("reply to self does not notify", func(t *testing.T) {
		f := newCommentFixture()

		parent := f.add(t, f.alice, "question", nil)
		f.add(t, f.alice, "follow up", &parent)

		assert.Empty(t, f.notifier.sent)
	})
}

func TestListComments(t *testing.T) {
	ctx := context.Background()

	t.Run("empty post", func(t *testing.T) {
		f := newCommentFixture()

		comments, err := f.usecase.ListComments(ctx, f.postId)
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("builds the thread with usernames", func(t *testing.T) {
		f := newCommentFixture()

		a := f.add(t, f.alice, "A", nil)
		f.add(t, f.bob, "B", &a)
		f.add(t, f.bob, "C", nil)

		comments, err := f.usecase.ListComments(ctx, f.postId)
		require.NoError(t, err)

		require.Len(t, comments, 2)
		assert.Equal(t, "A", comments[0].Content)
		assert.Equal(t, "alice", comments[0].Username)
		require.Len(t, comments[0].Replies, 1)
		assert.Equal(t, "B", comments[0].Replies[0].Content)
		assert.Equal(t, "bob", comments[0].Replies[0].Username)
		assert.Empty(t, comments[0].Replies[0].Replies)
		assert.Equal(t, "C", comments[1].Content)
		assert.Empty(t, comments[1].Replies)

		assert.Equal(t, 1, f.resolver.calls)
	})

	t.Run("stable across calls", func(t *testing.T) {
		f := newCommentFixture()

		a := f.add(t, f.alice, "A", nil)
		b := f.add(t, f.bob, "B", &a)
		f.add(t, f.alice, "C", &b)
		f.add(t, f.bob, "D", nil)

		first, err := f.usecase.ListComments(ctx, f.postId)
		require.NoError(t, err)
		second, err := f.usecase.ListComments(ctx, f.postId)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("unknown author decorates as empty", func(t *testing.T) {
		f := newCommentFixture()
		stranger := uuid.New()

		f.add(t, stranger, "who am I", nil)

		comments, err := f.usecase.ListComments(ctx, f.postId)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "", comments[0].Username)
	})

	t.Run("resolver failure still lists", func(t *testing.T) {
		f := newCommentFixture()
		f.add(t, f.alice, "A", nil)
		f.resolver.fail = true

		comments, err := f.usecase.ListComments(ctx, f.postId)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "", comments[0].Username)
	})

	t.Run("store failure surfaces as storage error", func(t *testing.T) {
		f := newCommentFixture()
		f.store.failList = true

		_, err := f.usecase.ListComments(ctx, f.postId)

		var storageErr *model.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.ErrorIs(t, err, errInjected)
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the whole subtree", func(t *testing.T) {
		f := newCommentFixture()

		a := f.add(t, f.alice, "A", nil)
		b := f.add(t, f.bob, "B", &a)
		f.add(t, f.alice, "C", &b)
		d := f.add(t, f.bob, "D", nil)

		err := f.usecase.DeleteComment(ctx, f.alice, a.Id)
		require.NoError(t, err)

		remaining := f.store.all()
		require.Len(t, remaining, 1)
		assert.Equal(t, d.Id, remaining[0].Id)
	})

	t.Run("deleting a leaf keeps its ancestors", func(t *testing.T) {
		f := newCommentFixture()

		a := f.add(t, f.alice, "A", nil)
		b := f.add(t, f.bob, "B", &a)

		err := f.usecase.DeleteComment(ctx, f.bob, b.Id)
		require.NoError(t, err)

		remaining := f.store.all()
		require.Len(t, remaining, 1)
		assert.Equal(t, a.Id, remaining[0].Id)
	})

	t.Run("reply listed before its parent is removed with it", func(t *testing.T) {
		f := newCommentFixture()

		a := f.add(t, f.alice, "A", nil)
		b := f.add(t, f.bob, "B", &a)
		d := f.add(t, f.bob, "D", nil)

		f.store.mu.Lock()
		f.store.comments = []model.Comment{f.store.comments[1], f.store.comments[0], f.store.comments[2]}
		f.store.comments[0].CreateDatetime = a.CreateDatetime.Add(-time.Second)
		f.store.mu.Unlock()

		err := f.usecase.DeleteComment(ctx, f.alice, a.Id)
		require.NoError(t, err)

		remaining := f.store.all()
		require.Len(t, remaining, 1)
		assert.Equal(t, d.Id, remaining[0].Id)
		assert.NotEqual(t, b.Id, remaining[0].Id)
	})

	t.Run("non author is rejected and nothing changes", func(t *testing.T) {
		f := newCommentFixture()

		a := f.add(t, f.alice, "A", nil)
		f.add(t, f.bob, "B", &a)
		before := f.store.all()

		err := f.usecase.DeleteComment(ctx, f.bob, a.Id)

		var authorizationErr *model.AuthorizationError
		require.ErrorAs(t, err, &authorizationErr)
		assert.Equal(t, before, f.store.all())
	})

	t.Run("missing comment", func(t *testing.T) {
		f := newCommentFixture()

		err := f.usecase.DeleteComment(ctx, f.alice, uuid.New())

		var notFoundErr *model.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("failure midway rolls back", func(t *testing.T) {
		f := newCommentFixture()

		a := f.add(t, f.alice, "A", nil)
		b := f.add(t, f.bob, "B", &a)
		f.add(t, f.alice, "C", &b)
		before := f.store.all()

		f.store.failDeleteAfter = 2

		err := f.usecase.DeleteComment(ctx, f.alice, a.Id)

		var storageErr *model.StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "delete comment subtree", storageErr.Op)
		assert.Equal(t, before, f.store.all())
	})
}
