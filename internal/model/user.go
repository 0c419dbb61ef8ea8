package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type UserRegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	Fullname    *string                `json:"fullname"`
	Bio         *string                `json:"bio"`
	Skills      []string               `json:"skills"`
	Experience  sonic.NoCopyRawMessage `json:"experience"`
	Education   sonic.NoCopyRawMessage `json:"education"`
	SocialLinks sonic.NoCopyRawMessage `json:"socialLinks"`
}

type UserResponse struct {
	Id             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Fullname       string    `json:"fullname"`
	Email          string    `json:"email"`
	AvatarImage    *string   `json:"avatarImage"`
	CreateDatetime time.Time `json:"createDatetime"`
	UpdateDatetime time.Time `json:"updateDatetime"`
}

type ProfileResponse struct {
	Id             uuid.UUID              `json:"id"`
	Username       string                 `json:"username"`
	Fullname       string                 `json:"fullname"`
	Email          string                 `json:"email,omitempty"`
	Bio            *string                `json:"bio"`
	Skills         []string               `json:"skills"`
	Experience     sonic.NoCopyRawMessage `json:"experience"`
	Education      sonic.NoCopyRawMessage `json:"education"`
	SocialLinks    sonic.NoCopyRawMessage `json:"socialLinks"`
	AvatarImage    *string                `json:"avatarImage"`
	CreateDatetime time.Time              `json:"createDatetime"`
	UpdateDatetime time.Time              `json:"updateDatetime"`
}

type User struct {
	Id              uuid.UUID
	Username        string
	Fullname        string
	Email           string
	Password        string
	Bio             *string
	Skills          []byte
	Experience      []byte
	Education       []byte
	SocialLinks     []byte
	AvatarObjectKey *string
	CreateDatetime  time.Time
	UpdateDatetime  time.Time
}
