package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/dom/videotube/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	fullName string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: "user_" + suffix,
		email:    "user_" + suffix + "@example.com",
		fullName: "Test User " + suffix,
		password: "testpassword123",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithFullName sets the full name
func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.fullName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           domain.NewID(),
		Username:     b.username,
		Email:        b.email,
		FullName:     b.fullName,
		Avatar:       "https://media.test/videotube/avatar.png",
		PasswordHash: string(hashedPassword),
		WatchHistory: []string{},
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// RegisterForm returns the multipart fields used to register this user.
func (b *UserBuilder) RegisterForm() map[string]string {
	return map[string]string{
		"fullName": b.fullName,
		"email":    b.email,
		"username": b.username,
		"password": b.password,
	}
}

// Envelope matches the API success envelope with a typed payload
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// AuthData matches the login payload
type AuthData struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// BuildAndAuthenticate registers a user via the API, logs in and returns the
// user and its access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	req := MultipartRequest(t, http.MethodPost, ts.APIURL("/users/register"), b.RegisterForm(),
		map[string]string{"avatar": "avatar.png"}, "")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected register status code: %d", resp.StatusCode)
	}

	body, _ := json.Marshal(map[string]string{"username": b.username, "password": b.password})
	resp, err = http.Post(ts.APIURL("/users/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var env Envelope[AuthData]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	user := env.Data.User
	return &user, env.Data.AccessToken
}

// VideoBuilder creates test videos
type VideoBuilder struct {
	owner       *domain.User
	title       string
	description string
	views       int64
	duration    float64
	published   bool
	createdAt   time.Time
}

// NewVideoBuilder creates a new VideoBuilder with default values
func NewVideoBuilder() *VideoBuilder {
	return &VideoBuilder{
		title:       "Test video " + uuid.New().String()[:8],
		description: "A video used in tests",
		duration:    60,
		published:   true,
	}
}

// WithOwner sets the owner
func (b *VideoBuilder) WithOwner(user *domain.User) *VideoBuilder {
	b.owner = user
	return b
}

// WithTitle sets the title
func (b *VideoBuilder) WithTitle(title string) *VideoBuilder {
	b.title = title
	return b
}

// WithDescription sets the description
func (b *VideoBuilder) WithDescription(description string) *VideoBuilder {
	b.description = description
	return b
}

// WithViews sets the view count
func (b *VideoBuilder) WithViews(views int64) *VideoBuilder {
	b.views = views
	return b
}

// Unpublished marks the video as unpublished
func (b *VideoBuilder) Unpublished() *VideoBuilder {
	b.published = false
	return b
}

// WithCreatedAt pins the creation time
func (b *VideoBuilder) WithCreatedAt(at time.Time) *VideoBuilder {
	b.createdAt = at
	return b
}

// Build creates the video in the database
func (b *VideoBuilder) Build(t *testing.T, db *gorm.DB) *domain.Video {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.owner = user
	}

	id := domain.NewID()
	video := &domain.Video{
		ID:          id,
		OwnerID:     b.owner.ID,
		Title:       b.title,
		Description: b.description,
		VideoFile:   "https://media.test/videotube/" + id + ".mp4",
		Thumbnail:   "https://media.test/videotube/" + id + ".jpg",
		Duration:    b.duration,
		Views:       b.views,
		IsPublished: true,
		CreatedAt:   b.createdAt,
	}

	if err := db.Create(video).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}
	// The column default would override a false value on insert.
	if !b.published {
		if err := db.Model(video).Update("is_published", false).Error; err != nil {
			t.Fatalf("failed to unpublish video: %v", err)
		}
	}

	return video
}

// SeedVideos creates count published videos for owner, one second apart
// with the oldest first.
func SeedVideos(t *testing.T, db *gorm.DB, owner *domain.User, count int) []*domain.Video {
	t.Helper()

	base := time.Now().Add(-time.Duration(count) * time.Minute)
	videos := make([]*domain.Video, count)
	for i := 0; i < count; i++ {
		videos[i] = NewVideoBuilder().
			WithOwner(owner).
			WithTitle(fmt.Sprintf("Video %02d", i+1)).
			WithCreatedAt(base.Add(time.Duration(i) * time.Second)).
			Build(t, db)
	}
	return videos
}

// CreateComment inserts a comment by owner on video
func CreateComment(t *testing.T, db *gorm.DB, video *domain.Video, owner *domain.User, content string) *domain.Comment {
	t.Helper()

	comment := &domain.Comment{
		ID:      domain.NewID(),
		VideoID: video.ID,
		OwnerID: owner.ID,
		Content: content,
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	return comment
}

// SeedComments creates count comments by owner on video, one second apart
// with the oldest first.
func SeedComments(t *testing.T, db *gorm.DB, video *domain.Video, owner *domain.User, count int) []*domain.Comment {
	t.Helper()

	base := time.Now().Add(-time.Duration(count) * time.Minute)
	comments := make([]*domain.Comment, count)
	for i := 0; i < count; i++ {
		comments[i] = &domain.Comment{
			ID:        domain.NewID(),
			VideoID:   video.ID,
			OwnerID:   owner.ID,
			Content:   fmt.Sprintf("Comment %02d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(comments[i]).Error; err != nil {
			t.Fatalf("failed to create comment: %v", err)
		}
	}
	return comments
}

// CreateTweet inserts a tweet by owner
func CreateTweet(t *testing.T, db *gorm.DB, owner *domain.User, content string) *domain.Tweet {
	t.Helper()

	tweet := &domain.Tweet{
		ID:      domain.NewID(),
		OwnerID: owner.ID,
		Content: content,
	}
	if err := db.Create(tweet).Error; err != nil {
		t.Fatalf("failed to create tweet: %v", err)
	}
	return tweet
}

// CreatePlaylist inserts a playlist owned by owner holding videos in order
func CreatePlaylist(t *testing.T, db *gorm.DB, owner *domain.User, videos ...*domain.Video) *domain.Playlist {
	t.Helper()

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	playlist := &domain.Playlist{
		ID:          domain.NewID(),
		OwnerID:     owner.ID,
		Name:        "Playlist " + uuid.New().String()[:8],
		Description: "A playlist used in tests",
		Videos:      ids,
	}
	if err := db.Create(playlist).Error; err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}
	return playlist
}

// Subscribe inserts a subscription edge
func Subscribe(t *testing.T, db *gorm.DB, subscriber, channel *domain.User) {
	t.Helper()

	sub := &domain.Subscription{
		ID:           domain.NewID(),
		SubscriberID: subscriber.ID,
		ChannelID:    channel.ID,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
}

// CountLikes counts reaction rows of actor on a subject
func CountLikes(t *testing.T, db *gorm.DB, actorID string, subjectType domain.SubjectType, subjectID string) int64 {
	t.Helper()

	var count int64
	err := db.Model(&domain.Like{}).
		Where("actor_id = ? AND subject_type = ? AND subject_id = ?", actorID, subjectType, subjectID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count likes: %v", err)
	}
	return count
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// MultipartRequest builds a multipart request. files maps a field name to
// the file name sent for it.
func MultipartRequest(t *testing.T, method, url string, fields, files map[string]string, token string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("file contents")); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, &body)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
