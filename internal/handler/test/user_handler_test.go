package test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	handlers "yatube/internal/handler"
	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func profileRequest(path, username string) *http.Request {
	return withVars(httptest.NewRequest(http.MethodGet, path, nil), map[string]string{"username": username})
}

func TestProfileHandler(t *testing.T) {
	filter := repository.PostFilter{AuthorID: "user-leo"}

	t.Run("Анонимный посетитель", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "leo").Return(leo, nil)
		deps.postRepo.On("Count", mock.Anything, filter).Return(2, nil)
		deps.postRepo.On("List", mock.Anything, filter, 10, 0).Return(makePosts(2, "user-leo"), nil)

		rec := httptest.NewRecorder()
		h.Profile(rec, profileRequest("/profile/leo/", "leo"))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeTemplate(t, rec)
		assert.Equal(t, handlers.TemplateProfile, resp.Template)
		assert.Equal(t, false, resp.Context["following"])
		assert.Equal(t, "leo", resp.Context["author"].(map[string]interface{})["username"])
		assert.Equal(t, float64(2), pageObj(t, resp)["count"])
		deps.follows.AssertNotCalled(t, "IsFollowing", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Подписчик видит отметку", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "leo").Return(leo, nil)
		deps.follows.On("IsFollowing", mock.Anything, "user-other", "user-leo").Return(true, nil)
		deps.postRepo.On("Count", mock.Anything, filter).Return(0, nil)
		deps.postRepo.On("List", mock.Anything, filter, 10, 0).Return([]models.Post{}, nil)

		rec := httptest.NewRecorder()
		h.Profile(rec, asUser(profileRequest("/profile/leo/", "leo"), other))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeTemplate(t, rec)
		assert.Equal(t, true, resp.Context["following"])
		assert.Equal(t, float64(1), pageObj(t, resp)["numPages"])
	})

	t.Run("Автор не найден", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

		rec := httptest.NewRecorder()
		h.Profile(rec, profileRequest("/profile/ghost/", "ghost"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, handlers.TemplateNotFound, decodeTemplate(t, rec).Template)
	})
}

func TestFollowIndexHandler(t *testing.T) {
	h, deps := newTestHandlers()
	filter := repository.PostFilter{FollowerID: "user-other"}

	deps.postRepo.On("Count", mock.Anything, filter).Return(1, nil)
	deps.postRepo.On("List", mock.Anything, filter, 10, 0).Return(makePosts(1, "user-leo"), nil)

	rec := httptest.NewRecorder()
	h.FollowIndex(rec, asUser(httptest.NewRequest(http.MethodGet, "/follow/", nil), other))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeTemplate(t, rec)
	assert.Equal(t, handlers.TemplateFollow, resp.Template)
	assert.Len(t, pageObj(t, resp)["posts"], 1)
	deps.postRepo.AssertExpectations(t)
}

func TestProfileFollowHandler(t *testing.T) {
	t.Run("Подписка и повторная подписка", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "leo").Return(leo, nil)
		deps.follows.On("Follow", mock.Anything, "user-other", "user-leo").Return(true, nil).Once()
		deps.follows.On("Follow", mock.Anything, "user-other", "user-leo").Return(false, nil).Once()

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			h.ProfileFollow(rec, asUser(profileRequest("/profile/leo/follow/", "leo"), other))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))
		}
		deps.follows.AssertNumberOfCalls(t, "Follow", 2)
	})

	t.Run("Автор не найден", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

		rec := httptest.NewRecorder()
		h.ProfileFollow(rec, asUser(profileRequest("/profile/ghost/follow/", "ghost"), other))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		deps.follows.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProfileUnfollowHandler(t *testing.T) {
	t.Run("Отписка", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "leo").Return(leo, nil)
		deps.follows.On("Unfollow", mock.Anything, "user-other", "user-leo").Return(nil)

		rec := httptest.NewRecorder()
		h.ProfileUnfollow(rec, asUser(profileRequest("/profile/leo/unfollow/", "leo"), other))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))
	})

	t.Run("Подписки не было", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "leo").Return(leo, nil)
		deps.follows.On("Unfollow", mock.Anything, "user-other", "user-leo").Return(repository.ErrNotFound)

		rec := httptest.NewRecorder()
		h.ProfileUnfollow(rec, asUser(profileRequest("/profile/leo/unfollow/", "leo"), other))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Ошибка базы", func(t *testing.T) {
		h, deps := newTestHandlers()
		deps.users.On("GetUserByUsername", mock.Anything, "leo").Return(leo, nil)
		deps.follows.On("Unfollow", mock.Anything, "user-other", "user-leo").Return(assert.AnError)

		rec := httptest.NewRecorder()
		h.ProfileUnfollow(rec, asUser(profileRequest("/profile/leo/unfollow/", "leo"), other))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, handlers.TemplateServer, decodeTemplate(t, rec).Template)
	})
}
