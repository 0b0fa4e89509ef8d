package handler

import (
	"blogicum/internal/data"
	"blogicum/internal/middleware"
	"blogicum/internal/service"
	"blogicum/internal/view"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ProfileHandler serves the account settings page.
type ProfileHandler struct {
	users service.UserServicer
	view  *view.View
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(us service.UserServicer, v *view.View) *ProfileHandler {
	return &ProfileHandler{users: us, view: v}
}

// editFormHandler shows the profile form to the account owner only.
func (h *ProfileHandler) editFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user := middleware.GetUserInfo(r.Context())
	profile, err := h.users.ProfileForEdit(r.Context(), user.ID, chi.URLParam(r, "username"))
	if err != nil {
		return serviceError(err, "Failed to load profile")
	}
	return render(w, r, h.view, "user.html", map[string]interface{}{
		"Profile": profile,
		"Form":    service.ProfileInput{FirstName: profile.FirstName, LastName: profile.LastName, Email: profile.Email},
	})
}

// editHandler saves the names and email of the account.
func (h *ProfileHandler) editHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user := middleware.GetUserInfo(r.Context())
	username := chi.URLParam(r, "username")
	in := service.ProfileInput{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
	}

	profile, err := h.users.UpdateProfile(r.Context(), user.ID, username, in)
	if err != nil {
		if errs, ok := service.FieldErrors(err); ok {
			if profile == nil {
				profile = &data.User{Username: username}
			}
			return render(w, r, h.view, "user.html", map[string]interface{}{
				"Profile": profile,
				"Form":    in,
				"Errors":  errs,
			})
		}
		return serviceError(err, "Failed to update profile")
	}

	http.Redirect(w, r, profileURL(profile.Username), http.StatusFound)
	return nil
}
