package response

import (
	"errors"
	"net/http"

	"github.com/dom/videotube/internal/domain"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Envelope is the body of every successful response.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

const internalMessage = "internal server error"

// JSON writes data inside the success envelope. A nil data is sent as {}.
func JSON(w http.ResponseWriter, status int, data interface{}, message string) {
	if data == nil {
		data = struct{}{}
	}
	write(w, status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Error writes err inside the failure envelope. Errors that do not unwrap to
// a known kind are logged and reported as 500 without their message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	env := ErrorEnvelope{
		StatusCode: status,
		Message:    internalMessage,
		Errors:     []string{},
	}

	var derr *domain.Error
	switch {
	case status == http.StatusInternalServerError:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	case errors.As(err, &derr):
		env.Message = derr.Message
		if len(derr.Details) > 0 {
			env.Errors = derr.Details
		}
	default:
		env.Message = err.Error()
	}

	write(w, status, env)
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidOperation),
		errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("failed to encode response")
	}
}
