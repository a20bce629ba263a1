package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/dom/videotube/internal/api/middleware"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/testutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		fields         map[string]string
		files          map[string]string
		setup          func()
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful registration",
			fields: map[string]string{
				"fullName": "New User",
				"email":    "new@example.com",
				"username": "NewUser",
				"password": "password123",
			},
			files:          map[string]string{"avatar": "me.png", "coverImage": "cover.jpg"},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "blank full name",
			fields: map[string]string{
				"fullName": "   ",
				"email":    "blank@example.com",
				"username": "blank",
				"password": "password123",
			},
			files:          map[string]string{"avatar": "me.png"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation failed",
		},
		{
			name: "missing avatar",
			fields: map[string]string{
				"fullName": "No Avatar",
				"email":    "noavatar@example.com",
				"username": "noavatar",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "avatar file is required",
		},
		{
			name: "duplicate username",
			fields: map[string]string{
				"fullName": "Dup",
				"email":    "dup@example.com",
				"username": "Existing",
				"password": "password123",
			},
			files: map[string]string{"avatar": "me.png"},
			setup: func() {
				testutil.NewUserBuilder().WithUsername("existing").Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			req := testutil.MultipartRequest(t, http.MethodPost, ts.APIURL("/users/register"), tt.fields, tt.files, "")
			resp := do(t, req)

			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
				return
			}

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			testutil.AssertNoCredentials(t, body)

			var env testutil.Envelope[domain.User]
			require.NoError(t, json.Unmarshal(body, &env))
			assert.True(t, env.Success)
			assert.Equal(t, "newuser", env.Data.Username)
			assert.NotEmpty(t, env.Data.Avatar)
			assert.NotEmpty(t, env.Data.CoverImage)
		})
	}
}

func TestAuthHandler_TooManyFiles(t *testing.T) {
	ts := testutil.NewTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range testutil.NewUserBuilder().RegisterForm() {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range []string{"a.png", "b.png"} {
		part, err := mw.CreateFormFile("avatar", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.APIURL("/users/register"), &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	testutil.AssertErrorResponse(t, do(t, req), http.StatusBadRequest, "only one file is allowed per field")
	assert.Empty(t, ts.Media.Uploaded())
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().WithUsername("loginuser").Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "by username",
			request:        map[string]string{"username": "loginuser", "password": password},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "by email",
			request:        map[string]string{"email": user.Email, "password": password},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			request:        map[string]string{"username": "loginuser", "password": "wrong"},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "invalid credentials",
		},
		{
			name:           "unknown user",
			request:        map[string]string{"username": "ghost", "password": password},
			expectedStatus: http.StatusNotFound,
			expectedError:  "user not found",
		},
		{
			name:           "missing identifier",
			request:        map[string]string{"password": password},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/login"), tt.request, "")
			resp := do(t, req)

			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
				return
			}

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			data := testutil.DecodeData[testutil.AuthData](t, resp)
			assert.Equal(t, user.ID, data.User.ID)
			assert.NotEmpty(t, data.AccessToken)
			assert.NotEmpty(t, data.RefreshToken)

			var names []string
			for _, c := range resp.Cookies() {
				names = append(names, c.Name)
				assert.True(t, c.HttpOnly)
			}
			assert.ElementsMatch(t, []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie}, names)
		})
	}
}

func TestAuthHandler_Session(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/login"),
		map[string]string{"username": user.Username, "password": password}, "")
	login := testutil.DecodeData[testutil.AuthData](t, do(t, req))

	t.Run("current user without credentials", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/users/current-user"), nil, "")
		testutil.AssertErrorResponse(t, do(t, req), http.StatusUnauthorized, "unauthorized request")
	})

	t.Run("current user hides credentials", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/users/current-user"), nil, login.AccessToken)
		resp := do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		testutil.AssertNoCredentials(t, body)
		assert.Contains(t, string(body), user.ID)
	})

	t.Run("refresh rotates the token", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/refresh-token"),
			map[string]string{"refreshToken": login.RefreshToken}, "")
		resp := do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		data := testutil.DecodeData[map[string]string](t, resp)
		assert.NotEmpty(t, data["accessToken"])
		assert.NotEqual(t, login.RefreshToken, data["refreshToken"])

		req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/refresh-token"),
			map[string]string{"refreshToken": login.RefreshToken}, "")
		testutil.AssertErrorResponse(t, do(t, req), http.StatusUnauthorized, "refresh token expired or used")
	})

	t.Run("refresh without a token", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/refresh-token"), nil, "")
		testutil.AssertErrorResponse(t, do(t, req), http.StatusUnauthorized, "unauthorized request")
	})

	t.Run("change password", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/change-password"),
			map[string]string{"oldPassword": "wrong", "newPassword": "next-one", "confirmPassword": "next-one"}, login.AccessToken)
		testutil.AssertErrorResponse(t, do(t, req), http.StatusUnauthorized, "invalid old password")

		req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/change-password"),
			map[string]string{"oldPassword": password, "newPassword": "next-one", "confirmPassword": "next-one"}, login.AccessToken)
		testutil.AssertStatusCode(t, do(t, req), http.StatusOK)
	})

	t.Run("logout clears cookies", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/users/logout"), nil, login.AccessToken)
		resp := do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		for _, c := range resp.Cookies() {
			assert.Empty(t, c.Value)
		}
	})
}
