package model

import (
	"time"

	"github.com/google/uuid"
)

type PostCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PostUpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Post struct {
	Id             uuid.UUID
	AuthorId       uuid.UUID
	Title          string
	Content        string
	CreateDatetime time.Time
	UpdateDatetime time.Time
}

type PostResponse struct {
	Id             uuid.UUID `json:"id"`
	AuthorId       uuid.UUID `json:"authorId"`
	Username       string    `json:"username"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ContentHtml    string    `json:"contentHtml"`
	LikeCount      int64     `json:"likeCount"`
	CommentCount   int64     `json:"commentCount"`
	CreateDatetime time.Time `json:"createDatetime"`
	UpdateDatetime time.Time `json:"updateDatetime"`
}

type PostCursor struct {
	Id             uuid.UUID `json:"id"`
	CreateDatetime time.Time `json:"createDatetime"`
}

type PostListResponse struct {
	Data []PostResponse `json:"data"`
	Page struct {
		NextCursor string `json:"nextCursor,omitempty"`
	} `json:"page"`
}
