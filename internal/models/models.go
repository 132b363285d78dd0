package models

import (
	"fmt"
	"time"
)

type User struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Username               string    `json:"username" db:"username"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
}

func (u User) String() string {
	return u.Username
}

// Post is listed newest first. AuthorUsername, GroupSlug and GroupTitle are
// filled by joins on read and ignored on write.
type Post struct {
	PostID         string    `json:"postId" db:"post_id"`
	Text           string    `json:"text" db:"text"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	Image          *string   `json:"image" db:"image"`
	AuthorID       string    `json:"authorId" db:"author_id"`
	GroupID        *string   `json:"groupId" db:"group_id"`
	AuthorUsername string    `json:"author" db:"author_username"`
	GroupSlug      *string   `json:"groupSlug" db:"group_slug"`
	GroupTitle     *string   `json:"groupTitle" db:"group_title"`
}

func (p Post) String() string {
	return truncate(p.Text, 15)
}

type Group struct {
	GroupID     string  `json:"groupId" db:"group_id"`
	Title       string  `json:"title" db:"title"`
	Slug        string  `json:"slug" db:"slug"`
	Description *string `json:"description" db:"description"`
}

func (g Group) String() string {
	return g.Title
}

type Comment struct {
	CommentID      string    `json:"commentId" db:"comment_id"`
	PostID         string    `json:"postId" db:"post_id"`
	AuthorID       string    `json:"authorId" db:"author_id"`
	AuthorUsername string    `json:"author" db:"author_username"`
	Text           string    `json:"text" db:"text"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

func (c Comment) String() string {
	return truncate(c.Text, 20)
}

type Follow struct {
	FollowID  string    `json:"followId" db:"follow_id"`
	UserID    string    `json:"userId" db:"user_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func (f Follow) String() string {
	return fmt.Sprintf("%s - %s", f.UserID, f.AuthorID)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
