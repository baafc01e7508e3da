// internal/app/system/apiclient/errors.go
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures to reach the backend at all.
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrDecode wraps responses that are not valid JSON.
	ErrDecode = errors.New("apiclient: malformed response")
)

// StatusError is returned for non-2xx responses, and for 2xx responses
// whose envelope carries success=false.
type StatusError struct {
	Status  int
	Message string // from the envelope's message/error field, may be empty
	Method  string
	Path    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("apiclient: %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, msg)
}

// IsStatus reports whether err is a StatusError with the given status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// Banner texts shown above lists and inside forms.
const (
	msgTransport = "Tidak dapat terhubung ke server. Periksa koneksi lalu coba lagi."
	msgTimeout   = "Server tidak merespons tepat waktu. Coba lagi."
	msgDecode    = "Respons server tidak dapat dibaca."
	msgUnknown   = "Terjadi kesalahan. Coba lagi."
)

// UserMessage turns an error from this package into the text shown to the
// operator. It never returns an empty string for a non-nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	switch {
	case errors.As(err, &se):
		msg := se.Message
		if msg == "" {
			msg = http.StatusText(se.Status)
		}
		return fmt.Sprintf("HTTP %d: %s", se.Status, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, ErrTransport):
		return msgTransport
	case errors.Is(err, ErrDecode):
		return msgDecode
	}
	return msgUnknown
}
