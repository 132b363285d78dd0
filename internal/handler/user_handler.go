package handlers

import (
	"errors"
	"net/http"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/gorilla/mux"
)

// resolveAuthor writes the 404/500 response itself and returns nil when the
// author cannot be loaded.
func (h *Handlers) resolveAuthor(w http.ResponseWriter, r *http.Request) *models.User {
	author, err := h.UserRepo.GetUserByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, err)
		}
		return nil
	}
	return author
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	author := h.resolveAuthor(w, r)
	if author == nil {
		return
	}

	following := false
	if viewer := middleware.UserFromContext(r.Context()); viewer != nil {
		var err error
		following, err = h.FollowService.IsFollowing(r.Context(), viewer.UserID, author.UserID)
		if err != nil {
			serverError(w, err)
			return
		}
	}

	page, err := h.pageOfPosts(r.Context(), repository.PostFilter{AuthorID: author.UserID}, r.URL.Query().Get("page"))
	if err != nil {
		serverError(w, err)
		return
	}

	render(w, http.StatusOK, TemplateProfile, map[string]interface{}{
		"page_obj":  page,
		"author":    author,
		"following": following,
	})
}

func (h *Handlers) FollowIndex(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	page, err := h.pageOfPosts(r.Context(), repository.PostFilter{FollowerID: user.UserID}, r.URL.Query().Get("page"))
	if err != nil {
		serverError(w, err)
		return
	}

	render(w, http.StatusOK, TemplateFollow, map[string]interface{}{
		"page_obj": page,
	})
}

func (h *Handlers) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	author := h.resolveAuthor(w, r)
	if author == nil {
		return
	}

	if _, err := h.FollowService.Follow(r.Context(), user.UserID, author.UserID); err != nil {
		serverError(w, err)
		return
	}

	redirect(w, r, profileURL(author.Username))
}

// ProfileUnfollow answers 404 when there was no subscription to remove.
func (h *Handlers) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	author := h.resolveAuthor(w, r)
	if author == nil {
		return
	}

	if err := h.FollowService.Unfollow(r.Context(), user.UserID, author.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, err)
		}
		return
	}

	redirect(w, r, profileURL(author.Username))
}
