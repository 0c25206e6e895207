package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/utafrali/RentalGo/internal/view"
	apperrors "github.com/utafrali/RentalGo/pkg/errors"
	"github.com/utafrali/RentalGo/pkg/logger"
	"github.com/utafrali/RentalGo/pkg/validator"
)

const (
	msgSomethingWrong = "Something went wrong. Please try again."
	msgFixFields      = "Please correct the highlighted fields."
)

// isHTMX reports whether r was issued by htmx and expects a fragment.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// htmlRenderer buffers template output so a failed render can still answer 500.
type htmlRenderer struct {
	views  *view.Renderer
	logger *slog.Logger
}

func (h htmlRenderer) page(w http.ResponseWriter, r *http.Request, status int, name string, p view.Page) {
	var buf bytes.Buffer
	if err := h.views.Page(&buf, name, p); err != nil {
		h.renderFailed(w, r, err)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (h htmlRenderer) fragment(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.views.Fragment(&buf, name, data); err != nil {
		h.renderFailed(w, r, err)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (h htmlRenderer) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithContext(r.Context(), h.logger).ErrorContext(r.Context(), "render failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	http.Error(w, msgSomethingWrong, http.StatusInternalServerError)
}

// formFailure turns a form handler error into the result shown under the
// form. htmx only swaps 2xx responses, so fragments always answer 200.
func (h htmlRenderer) formFailure(r *http.Request, id string, err error) (view.FormResult, int) {
	result := view.FormResult{ID: id}
	status := http.StatusInternalServerError

	var valErr *validator.ValidationError
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &valErr):
		result.Message = msgFixFields
		result.Fields = valErr.Fields()
		status = http.StatusBadRequest
	case errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError:
		result.Message = appErr.Message
		status = appErr.Status
	default:
		logger.WithContext(r.Context(), h.logger).ErrorContext(r.Context(), "form submission failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		result.Message = msgSomethingWrong
	}

	if isHTMX(r) {
		status = http.StatusOK
	}
	return result, status
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
