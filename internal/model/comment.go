package model

import (
	"time"

	"github.com/google/uuid"
)

type CommentCreateRequest struct {
	Content  string  `json:"content"`
	ParentId *string `json:"parentId"`
}

type Comment struct {
	Id             uuid.UUID  `json:"id"`
	PostId         uuid.UUID  `json:"postId"`
	AuthorId       uuid.UUID  `json:"authorId"`
	ParentId       *uuid.UUID `json:"parentId"`
	Content        string     `json:"content"`
	CreateDatetime time.Time  `json:"createDatetime"`
}

// CommentNode is a comment placed in its thread. Replies keep listing order.
type CommentNode struct {
	Comment Comment
	Replies []*CommentNode
}

type CommentTreeResponse struct {
	Id             uuid.UUID             `json:"id"`
	PostId         uuid.UUID             `json:"postId"`
	AuthorId       uuid.UUID             `json:"authorId"`
	Username       string                `json:"username"`
	ParentId       *uuid.UUID            `json:"parentId"`
	Content        string                `json:"content"`
	CreateDatetime time.Time             `json:"createDatetime"`
	Replies        []CommentTreeResponse `json:"replies"`
}

type CommentListResponse struct {
	Data []CommentTreeResponse `json:"data"`
}
