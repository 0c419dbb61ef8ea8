package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ferdian3456/devblog/internal/model"
	"github.com/ferdian3456/devblog/internal/repository"
	"github.com/ferdian3456/devblog/internal/testsupport"
	"github.com/ferdian3456/devblog/internal/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assertSameComment(t *testing.T, want model.Comment, got model.Comment) {
	t.Helper()

	assert.Equal(t, want.Id, got.Id)
	assert.Equal(t, want.PostId, got.PostId)
	assert.Equal(t, want.AuthorId, got.AuthorId)
	assert.Equal(t, want.ParentId, got.ParentId)
	assert.Equal(t, want.Content, got.Content)
	assert.True(t, want.CreateDatetime.Equal(got.CreateDatetime), "create datetime should round trip")
}

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	infra, err := testsupport.StartInfra(ctx, t)
	require.NoError(t, err, "infrastructure should start successfully")
	defer func() {
		_ = infra.Terminate(ctx, t)
	}()

	db, rdb := testsupport.Connect(ctx, t, infra)
	log := zap.NewNop()

	commentRepository := repository.NewCommentRepository(log, db)
	likeRepository := repository.NewLikeRepository(log, db)
	postRepository := repository.NewPostRepository(log, db)
	userRepository := repository.NewUserRepository(log, db, rdb, nil)

	commentUsecase := usecase.NewCommentUsecase(commentRepository, postRepository, userRepository, nil, log)
	likeUsecase := usecase.NewLikeUsecase(likeRepository, postRepository, log)

	reset := func(t *testing.T) (uuid.UUID, uuid.UUID) {
		testsupport.TruncateAllTables(t, db, ctx)
		testsupport.FlushCache(t, rdb, ctx)

		authorId := testsupport.InsertUser(t, db, ctx, "author")
		postId := testsupport.InsertPost(t, db, ctx, authorId, "First post")
		return authorId, postId
	}

	t.Run("comment insert and list order", func(t *testing.T) {
		authorId, postId := reset(t)

		first, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, Content: "first"})
		require.NoError(t, err)
		second, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, ParentId: &first.Id, Content: "second"})
		require.NoError(t, err)

		comments, err := commentRepository.ListCommentsByPost(ctx, postId)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assertSameComment(t, first, comments[0])
		assertSameComment(t, second, comments[1])

		got, err := commentRepository.GetCommentById(ctx, second.Id)
		require.NoError(t, err)
		assertSameComment(t, second, got)
	})

	t.Run("list of unknown post is empty", func(t *testing.T) {
		reset(t)

		comments, err := commentRepository.ListCommentsByPost(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("blank content is rejected", func(t *testing.T) {
		authorId, postId := reset(t)

		_, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, Content: " \t "})

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("foreign keys map to not found", func(t *testing.T) {
		authorId, postId := reset(t)

		_, err := commentRepository.InsertComment(ctx, model.Comment{PostId: uuid.New(), AuthorId: authorId, Content: "orphan"})
		var notFoundErr *model.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "postId", notFoundErr.Param)

		missing := uuid.New()
		_, err = commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, ParentId: &missing, Content: "reply"})
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "parentId", notFoundErr.Param)
	})

	t.Run("delete missing comment", func(t *testing.T) {
		reset(t)

		err := commentRepository.DeleteCommentById(ctx, uuid.New())

		var notFoundErr *model.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)

		_, err = commentRepository.GetCommentById(ctx, uuid.New())
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		authorId, postId := reset(t)

		root, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, Content: "root"})
		require.NoError(t, err)

		err = commentRepository.WithinTx(ctx, func(store repository.CommentStore) error {
			err := store.DeleteCommentById(ctx, root.Id)
			require.NoError(t, err)
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		_, err = commentRepository.GetCommentById(ctx, root.Id)
		assert.NoError(t, err)
	})

	t.Run("deleting a parent before its child fails at commit", func(t *testing.T) {
		authorId, postId := reset(t)

		parent, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, Content: "parent"})
		require.NoError(t, err)
		_, err = commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, ParentId: &parent.Id, Content: "child"})
		require.NoError(t, err)

		err = commentRepository.WithinTx(ctx, func(store repository.CommentStore) error {
			return store.DeleteCommentById(ctx, parent.Id)
		})
		require.Error(t, err)

		comments, err := commentRepository.ListCommentsByPost(ctx, postId)
		require.NoError(t, err)
		assert.Len(t, comments, 2)
	})

	t.Run("subtree delete follows parent links not timestamps", func(t *testing.T) {
		authorId, postId := reset(t)

		parent, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, Content: "parent"})
		require.NoError(t, err)
		reply, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, ParentId: &parent.Id, Content: "reply"})
		require.NoError(t, err)

		_, err = db.Exec(ctx, "UPDATE post_comments SET create_datetime = $1 WHERE id = $2", parent.CreateDatetime.Add(-time.Minute), reply.Id)
		require.NoError(t, err)

		comments, err := commentRepository.ListCommentsByPost(ctx, postId)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, reply.Id, comments[0].Id)

		err = commentUsecase.DeleteComment(ctx, authorId, parent.Id)
		require.NoError(t, err)

		comments, err = commentRepository.ListCommentsByPost(ctx, postId)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("comment timestamps come from the database", func(t *testing.T) {
		authorId, postId := reset(t)

		first, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, Content: "first"})
		require.NoError(t, err)
		second, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, ParentId: &first.Id, Content: "second"})
		require.NoError(t, err)

		assert.False(t, first.CreateDatetime.IsZero())
		assert.False(t, second.CreateDatetime.Before(first.CreateDatetime))
	})

	t.Run("deleting a post cascades", func(t *testing.T) {
		authorId, postId := reset(t)

		_, err := commentRepository.InsertComment(ctx, model.Comment{PostId: postId, AuthorId: authorId, Content: "c"})
		require.NoError(t, err)
		require.NoError(t, likeRepository.InsertLike(ctx, model.PostLike{PostId: postId, UserId: authorId, CreateDatetime: time.Now()}))

		require.NoError(t, postRepository.DeletePost(ctx, postId))

		comments, err := commentRepository.ListCommentsByPost(ctx, postId)
		require.NoError(t, err)
		assert.Empty(t, comments)

		count, err := likeRepository.CountLikes(ctx, postId)
		require.NoError(t, err)
		assert.Zero(t, count)

		_, err = postRepository.GetPostAuthor(ctx, postId)
		var notFoundErr *model.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("likes are unique per user and post", func(t *testing.T) {
		authorId, postId := reset(t)
		like := model.PostLike{PostId: postId, UserId: authorId, CreateDatetime: time.Now()}

		require.NoError(t, likeRepository.InsertLike(ctx, like))
		require.NoError(t, likeRepository.InsertLike(ctx, like))

		count, err := likeRepository.CountLikes(ctx, postId)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		liked, err := likeRepository.CheckLike(ctx, postId, authorId)
		require.NoError(t, err)
		assert.True(t, liked)

		removed, err := likeRepository.DeleteLike(ctx, postId, authorId)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = likeRepository.DeleteLike(ctx, postId, authorId)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("concurrent likes from many users", func(t *testing.T) {
		_, postId := reset(t)

		users := make([]uuid.UUID, 10)
		for i := range users {
			users[i] = testsupport.InsertUser(t, db, ctx, "liker"+testsupport.GenerateRandomString(6))
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(users)*2)
		for _, userId := range users {
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func(userId uuid.UUID) {
					defer wg.Done()
					errs <- likeRepository.InsertLike(ctx, model.PostLike{PostId: postId, UserId: userId, CreateDatetime: time.Now()})
				}(userId)
			}
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		count, err := likeRepository.CountLikes(ctx, postId)
		require.NoError(t, err)
		assert.Equal(t, int64(len(users)), count)
	})

	t.Run("concurrent toggles from one user stay consistent", func(t *testing.T) {
		_, postId := reset(t)
		likerId := testsupport.InsertUser(t, db, ctx, "liker")

		const toggles = 20

		var wg sync.WaitGroup
		errs := make(chan error, toggles)
		for i := 0; i < toggles; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := likeUsecase.ToggleLike(ctx, likerId, postId)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		count, err := likeRepository.CountLikes(ctx, postId)
		require.NoError(t, err)
		assert.Contains(t, []int64{0, 1}, count)

		liked, err := likeRepository.CheckLike(ctx, postId, likerId)
		require.NoError(t, err)
		assert.Equal(t, count == 1, liked)

		status, err := likeUsecase.GetLikeStatus(ctx, likerId, postId)
		require.NoError(t, err)
		assert.Equal(t, liked, status.HasLiked)
		assert.Equal(t, count, status.Count)
	})

	t.Run("post listing uses the cursor", func(t *testing.T) {
		authorId, _ := reset(t)
		testsupport.InsertPost(t, db, ctx, authorId, "Second post")
		testsupport.InsertPost(t, db, ctx, authorId, "Third post")

		page, err := postRepository.GetPosts(ctx, 2, nil)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "Third post", page[0].Title)
		assert.Equal(t, "author", page[0].Username)

		last := page[1]
		rest, err := postRepository.GetPosts(ctx, 2, &model.PostCursor{Id: last.Id, CreateDatetime: last.CreateDatetime})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "First post", rest[0].Title)
	})

	t.Run("usernames resolve through the cache", func(t *testing.T) {
		authorId, _ := reset(t)
		otherId := testsupport.InsertUser(t, db, ctx, "other")
		unknown := uuid.New()

		usernames, err := userRepository.ResolveUsernames(ctx, []uuid.UUID{authorId, otherId, unknown})
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]string{authorId: "author", otherId: "other"}, usernames)

		cached, err := rdb.Get(ctx, "user:username:"+authorId.String()).Result()
		require.NoError(t, err)
		assert.Equal(t, "author", cached)

		_, err = db.Exec(ctx, "DELETE FROM users WHERE id = $1", otherId)
		require.NoError(t, err)

		usernames, err = userRepository.ResolveUsernames(ctx, []uuid.UUID{otherId})
		require.NoError(t, err)
		assert.Equal(t, "other", usernames[otherId])

		empty, err := userRepository.ResolveUsernames(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
