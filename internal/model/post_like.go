package model

import (
	"time"

	"github.com/google/uuid"
)

type PostLike struct {
	PostId         uuid.UUID
	UserId         uuid.UUID
	CreateDatetime time.Time
}

type LikeToggleResponse struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

type LikeStatusResponse struct {
	HasLiked bool  `json:"hasLiked"`
	Count    int64 `json:"count"`
}
