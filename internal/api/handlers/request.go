package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/dom/videotube/internal/api/middleware"
	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/media"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/goccy/go-json"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterValidation("notblank", validators.NotBlank)
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
	return validate
}

func validateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewError(domain.ErrInvalidArgument, "invalid request")
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, describeFieldError(fe))
	}
	return domain.NewError(domain.ErrInvalidArgument, "validation failed", details...)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "required_without":
		return fmt.Sprintf("%s or %s is required", fe.Field(), lowerFirst(fe.Param()))
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields, and
// validates it. An empty body is allowed when optional is set.
func decodeJSON(r *http.Request, dst interface{}, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return nil
			}
			return domain.NewError(domain.ErrInvalidArgument, "request body is required")
		}
		return domain.NewError(domain.ErrInvalidArgument, "invalid request body", err.Error())
	}
	return validateStruct(dst)
}

// currentUser is only called behind middleware.Auth.
func currentUser(r *http.Request) *domain.User {
	user, _ := middleware.GetUser(r.Context())
	return user
}

func actorID(r *http.Request) string {
	if user := currentUser(r); user != nil {
		return user.ID
	}
	return ""
}

func pageQuery(r *http.Request) (domain.PageQuery, error) {
	q := r.URL.Query()
	page := domain.PageQuery{
		SortBy:   q.Get("sortBy"),
		SortType: domain.SortDirection(strings.ToLower(q.Get("sortType"))),
	}
	var err error
	if page.Page, err = intParam(q.Get("page")); err != nil {
		return page, domain.NewError(domain.ErrInvalidArgument, "page must be a number")
	}
	if page.Limit, err = intParam(q.Get("limit")); err != nil {
		return page, domain.NewError(domain.ErrInvalidArgument, "limit must be a number")
	}
	return page.Normalize()
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// upload holds the parsed multipart form and the local copies of its files.
type upload struct {
	form  *multipart.Form
	files map[string]string
}

// parseUpload reads a multipart request and saves at most one file per field
// in fields to the temp dir. Callers must defer cleanup.
func parseUpload(w http.ResponseWriter, r *http.Request, cfg config.MediaConfig, fields ...string) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, domain.NewError(domain.ErrInvalidArgument, "invalid multipart form", err.Error())
	}

	u := &upload{form: r.MultipartForm, files: make(map[string]string, len(fields))}
	for _, field := range fields {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}
		if len(headers) > 1 {
			u.cleanup()
			return nil, domain.NewError(domain.ErrInvalidArgument, domain.ErrTooManyFiles.Message, field)
		}
		path, err := media.SaveTemp(cfg.TempDir, headers[0])
		if err != nil {
			u.cleanup()
			return nil, err
		}
		u.files[field] = path
	}
	return u, nil
}

func (u *upload) value(key string) string {
	if vs := u.form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (u *upload) file(field string) string {
	return u.files[field]
}

// cleanup removes local copies the media gateway did not already consume.
func (u *upload) cleanup() {
	for _, p := range u.files {
		_ = os.Remove(p)
	}
	if u.form != nil {
		u.form.RemoveAll()
	}
}

func setAuthCookies(w http.ResponseWriter, cfg *config.Config, accessToken, refreshToken string) {
	http.SetCookie(w, authCookie(cfg, middleware.AccessTokenCookie, accessToken, int(cfg.AccessTokenExpiry.Seconds())))
	http.SetCookie(w, authCookie(cfg, middleware.RefreshTokenCookie, refreshToken, int(cfg.RefreshTokenExpiry.Seconds())))
}

func clearAuthCookies(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, authCookie(cfg, middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, authCookie(cfg, middleware.RefreshTokenCookie, "", -1))
}

func authCookie(cfg *config.Config, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
