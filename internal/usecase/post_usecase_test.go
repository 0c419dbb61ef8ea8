package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/ferdian3456/devblog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		content   string
		wantParam string
	}{
		{"valid", "Hello", "# body", ""},
		{"empty title", "", "body", "title"},
		{"title too long", strings.Repeat("a", maxTitleLength+1), "body", "title"},
		{"title at limit", strings.Repeat("é", maxTitleLength), "body", ""},
		{"blank content", "Hello", "  \n ", "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePost(tt.title, tt.content)
			if tt.wantParam == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantParam, validationErr.Param)
		})
	}
}

func TestGetPostsRejectsBadInput(t *testing.T) {
	usecase := NewPostUsecase(nil, zap.NewNop(), nil)
	ctx := context.Background()

	var validationErr *model.ValidationError

	_, err := usecase.GetPosts(ctx, 0, "")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "limit", validationErr.Param)

	_, err = usecase.GetPosts(ctx, 101, "")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "limit", validationErr.Param)

	_, err = usecase.GetPosts(ctx, 10, "not-a-cursor!")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "cursor", validationErr.Param)
}
