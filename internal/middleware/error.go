package middleware

import (
	"blogicum/internal/logger"
	"blogicum/internal/view"
	"fmt"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// NotFound builds the AppError for a missing or hidden record.
func NotFound(err error) *AppError {
	return &AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
}

// Internal builds the AppError for an unexpected failure.
func Internal(err error, message string) *AppError {
	return &AppError{Error: err, Message: message, Code: http.StatusInternalServerError}
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, view *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, r, log, view, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			err := next(w, r)
			if err != nil {
				if err.Code >= http.StatusInternalServerError {
					log.Error(err.Error, err.Message)
				} else {
					log.Debug(fmt.Sprintf("%s %s: %d %s", r.Method, r.URL.Path, err.Code, err.Message))
				}
				renderError(w, r, log, view, err.Code, err.Message)
			}
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, log logger.Logger, view *view.View, code int, message string) {
	data := TemplateData(r.Context(), map[string]interface{}{
		"StatusCode": code,
		"StatusText": message,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := view.Render(w, "error.html", data); err != nil {
		log.Error(err, "Failed to render error page")
	}
}
