package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dom/videotube/internal/domain"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

type loginResponse struct {
	User        domain.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// Account is a simulated user and its session.
type Account struct {
	User     domain.User
	Password string
	Token    string
}

// RegisterUser creates a new account with a generated avatar and signs it in
func (c *APIClient) RegisterUser(baseName, avatarPath string) (*Account, error) {
	username := fmt.Sprintf("%s_%d", strings.ToLower(baseName), time.Now().UnixNano()%100000)
	password := "testpassword123"

	fields := map[string]string{
		"fullName": baseName,
		"email":    username + "@sim.videotube.dev",
		"username": username,
		"password": password,
	}
	files := map[string]string{"avatar": avatarPath}

	if err := c.do(http.MethodPost, "/users/register", fields, files, "", http.StatusCreated, nil); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return c.Login(username, password)
}

// Login signs in an existing account
func (c *APIClient) Login(username, password string) (*Account, error) {
	body := map[string]string{"username": username, "password": password}

	var result loginResponse
	if err := c.doJSON(http.MethodPost, "/users/login", body, "", http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &Account{User: result.User, Password: password, Token: result.AccessToken}, nil
}

func (c *APIClient) Subscribe(token, channelID string) error {
	return c.doJSON(http.MethodPost, "/subscriptions/c/"+channelID, nil, token, http.StatusOK, nil)
}

func (c *APIClient) PostTweet(token, content string) (*domain.Tweet, error) {
	var tweet domain.Tweet
	if err := c.doJSON(http.MethodPost, "/tweets", map[string]string{"content": content}, token, http.StatusCreated, &tweet); err != nil {
		return nil, fmt.Errorf("post tweet: %w", err)
	}
	return &tweet, nil
}

func (c *APIClient) LikeTweet(token, tweetID string) error {
	return c.doJSON(http.MethodPost, "/likes/toggle-like/t/"+tweetID, nil, token, http.StatusOK, nil)
}

func (c *APIClient) LikeVideo(token, videoID string) error {
	return c.doJSON(http.MethodPost, "/likes/toggle-like/v/"+videoID, nil, token, http.StatusOK, nil)
}

func (c *APIClient) PublishVideo(token, title, videoPath, thumbnailPath string) (*domain.Video, error) {
	fields := map[string]string{"title": title, "description": "Uploaded by the simulator"}
	files := map[string]string{"videoFile": videoPath, "thumbnail": thumbnailPath}

	var video domain.Video
	if err := c.do(http.MethodPost, "/videos", fields, files, token, http.StatusCreated, &video); err != nil {
		return nil, fmt.Errorf("publish video: %w", err)
	}
	return &video, nil
}

func (c *APIClient) ChannelProfile(token, username string) (*domain.ChannelProfile, error) {
	var profile domain.ChannelProfile
	if err := c.doJSON(http.MethodGet, "/users/c/"+username, nil, token, http.StatusOK, &profile); err != nil {
		return nil, fmt.Errorf("channel profile: %w", err)
	}
	return &profile, nil
}

// DialFeed opens the live activity feed for token
func (c *APIClient) DialFeed(token string) (*websocket.Conn, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/feed/ws?token=" + token

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, resp, err := dialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("feed handshake failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, err
	}
	return conn, nil
}

// HTTP helpers

func (c *APIClient) doJSON(method, path string, body interface{}, token string, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, token, wantStatus, out)
}

func (c *APIClient) do(method, path string, fields, files map[string]string, token string, wantStatus int, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	for field, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		part, err := w.CreateFormFile(field, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, token, wantStatus, out)
}

func (c *APIClient) send(req *http.Request, token string, wantStatus int, out interface{}) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("status %d: %s", resp.StatusCode, env.Message)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
