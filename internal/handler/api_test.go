package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/service"
)

// ==================== 认证 ====================

func TestLoginSingleUserLock(t *testing.T) {
	env := newTestEnv()
	env.config.SingleUserEmail = "Me@Example.com"

	w := env.request(t, http.MethodPost, "/auth/login", gin.H{"email": "other@example.com"}, false)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env.users.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv()
	env.config.DevAuthPassword = "hunter2"

	w := env.request(t, http.MethodPost, "/auth/login", gin.H{"email": "me@example.com", "password": "nope"}, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.users.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything)
}

func TestLoginNormalizesEmailAndCreatesUser(t *testing.T) {
	env := newTestEnv()
	env.users.On("EnsureUser", "me@example.com", "me").Return(&model.User{ID: 1, Email: "me@example.com", Name: "me"}, nil)

	w := env.request(t, http.MethodPost, "/auth/login", gin.H{"email": "  ME@Example.com  "}, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, w.Result().Cookies())
	env.users.AssertExpectations(t)
}

func TestMeRequiresAuth(t *testing.T) {
	env := newTestEnv()
	w := env.request(t, http.MethodGet, "/auth/me", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv()
	env.users.On("Delete", testUserID).Return(nil)

	w := env.request(t, http.MethodDelete, "/api/account", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	env.users.AssertExpectations(t)
}

// ==================== 片单 ====================

func TestSetWatchlistStatusRequiresAuth(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/api/watchlist", gin.H{"tmdbId": 603, "status": "watched"}, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.sync.AssertNotCalled(t, "SyncMovie", mock.Anything, mock.Anything)
	env.watchlist.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetWatchlistStatus(t *testing.T) {
	env := newTestEnv()
	env.sync.On("SyncMovie", mock.Anything, 603).Return(&model.Movie{ID: 11, TMDBID: 603, Title: "The Matrix"}, nil)
	env.watchlist.On("SetStatus", testUserID, 11, model.StatusWatched).Return(&model.WatchlistEntry{ID: 5, UserID: testUserID, MovieID: 11, Status: model.StatusWatched}, nil)

	w := env.request(t, http.MethodPost, "/api/watchlist", gin.H{"tmdbId": 603, "status": "watched"}, true)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["ok"])
	env.watchlist.AssertExpectations(t)
}

func TestSetWatchlistStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/api/watchlist", gin.H{"tmdbId": 603, "status": "meh"}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.sync.AssertNotCalled(t, "SyncMovie", mock.Anything, mock.Anything)
}

func TestSetWatchlistStatusSyncFailureAbortsWrite(t *testing.T) {
	env := newTestEnv()
	env.sync.On("SyncMovie", mock.Anything, 603).Return(nil, errors.New("upstream down"))

	w := env.request(t, http.MethodPost, "/api/watchlist", gin.H{"tmdbId": 603, "status": "watched"}, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env.watchlist.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveWatchlistUnknownMovie(t *testing.T) {
	env := newTestEnv()
	env.movies.On("FindByTMDBID", 999).Return(nil, nil)

	w := env.request(t, http.MethodDelete, "/api/watchlist", gin.H{"tmdbId": 999}, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env.watchlist.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestListWatchlistRejectsBadFilter(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodGet, "/api/watchlist?status=bogus", nil, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.watchlist.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListWatchlistFiltersByStatus(t *testing.T) {
	env := newTestEnv()
	env.watchlist.On("List", testUserID, model.StatusPlanned).Return([]model.WatchlistItem{}, nil)

	w := env.request(t, http.MethodGet, "/api/watchlist?status=planned", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	env.watchlist.AssertExpectations(t)
}

// ==================== 评分 ====================

func TestSetRatingOutOfRange(t *testing.T) {
	env := newTestEnv()

	for _, bad := range []int{0, 11, -3} {
		w := env.request(t, http.MethodPost, "/api/ratings", gin.H{"tmdbId": 603, "rating": bad}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d should be rejected", bad)
	}
	env.sync.AssertNotCalled(t, "SyncMovie", mock.Anything, mock.Anything)
	env.ratings.AssertNotCalled(t, "SetValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetRating(t *testing.T) {
	env := newTestEnv()
	env.sync.On("SyncMovie", mock.Anything, 603).Return(&model.Movie{ID: 11, TMDBID: 603}, nil)
	env.ratings.On("SetValue", testUserID, 11, 9).Return(&model.Rating{ID: 3, UserID: testUserID, MovieID: 11, Rating: 9}, nil)

	w := env.request(t, http.MethodPost, "/api/ratings", gin.H{"tmdbId": 603, "rating": 9}, true)

	require.Equal(t, http.StatusOK, w.Code)
	env.ratings.AssertExpectations(t)
}

func TestSetRatingSyncFailureAbortsWrite(t *testing.T) {
	env := newTestEnv()
	env.sync.On("SyncMovie", mock.Anything, 603).Return(nil, errors.New("upstream down"))

	w := env.request(t, http.MethodPost, "/api/ratings", gin.H{"tmdbId": 603, "rating": 9}, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env.ratings.AssertNotCalled(t, "SetValue", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== 笔记 ====================

func TestCreateNoteRejectsBlankContent(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/api/notes", gin.H{"tmdbId": 603, "content": "   "}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.notes.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateNote(t *testing.T) {
	env := newTestEnv()
	env.sync.On("SyncMovie", mock.Anything, 603).Return(&model.Movie{ID: 11, TMDBID: 603}, nil)
	env.notes.On("Create", mock.MatchedBy(func(n *model.Note) bool {
		return n.UserID == testUserID && n.MovieID == 11 && n.Content == "rewatch soon" && n.Spoiler
	})).Return(nil)

	w := env.request(t, http.MethodPost, "/api/notes", gin.H{"tmdbId": 603, "content": " rewatch soon ", "spoiler": true}, true)

	require.Equal(t, http.StatusOK, w.Code)
	env.notes.AssertExpectations(t)
}

func TestCreateNoteSyncFailureAbortsWrite(t *testing.T) {
	env := newTestEnv()
	env.sync.On("SyncMovie", mock.Anything, 603).Return(nil, errors.New("upstream down"))

	w := env.request(t, http.MethodPost, "/api/notes", gin.H{"tmdbId": 603, "content": "great"}, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env.notes.AssertNotCalled(t, "Create", mock.Anything)
}

// ==================== 影单 ====================

func TestAddCollectionMovieChecksOwnership(t *testing.T) {
	env := newTestEnv()
	env.collections.On("FindByID", testUserID, 5).Return(nil, nil)

	w := env.request(t, http.MethodPost, "/api/collections/5/movies", gin.H{"tmdbId": 603}, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env.sync.AssertNotCalled(t, "SyncMovie", mock.Anything, mock.Anything)
	env.collections.AssertNotCalled(t, "AddMovie", mock.Anything, mock.Anything)
}

func TestAddCollectionMovie(t *testing.T) {
	env := newTestEnv()
	env.collections.On("FindByID", testUserID, 5).Return(&model.Collection{ID: 5, UserID: testUserID, Name: "Noir"}, nil)
	env.sync.On("SyncMovie", mock.Anything, 603).Return(&model.Movie{ID: 11, TMDBID: 603}, nil)
	env.collections.On("AddMovie", 5, 11).Return(nil)

	w := env.request(t, http.MethodPost, "/api/collections/5/movies", gin.H{"tmdbId": 603}, true)

	require.Equal(t, http.StatusOK, w.Code)
	env.collections.AssertExpectations(t)
}

func TestCreateCollectionRejectsBlankName(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/api/collections", gin.H{"name": "  "}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.collections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ==================== 助手 ====================

func TestChatRejectsEmptyMessages(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/api/ai/chat", gin.H{"messages": []gin.H{}}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything)
}

func TestChatRejectsBlankMessage(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/api/ai/chat", gin.H{"messages": []gin.H{
		{"role": "user", "content": "hello"},
		{"role": "user", "content": "   "},
	}}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.chat.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything)
}

func TestChatForwardsOnlyLastMessage(t *testing.T) {
	env := newTestEnv()
	env.chat.On("Reply", mock.Anything, "what should I watch tonight?").Return("Try Heat (1995).", nil)

	w := env.request(t, http.MethodPost, "/api/ai/chat", gin.H{"messages": []gin.H{
		{"role": "user", "content": "hi"},
		{"role": "assistant", "content": "hello!"},
		{"role": "user", "content": "what should I watch tonight?"},
	}}, true)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Try Heat (1995).", body["text"])
	env.chat.AssertExpectations(t)
}

// ==================== 目录 ====================

func TestSearchCatalogRequiresQuery(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodGet, "/api/tmdb/search", nil, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.catalog.AssertNotCalled(t, "SearchMovies", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchCatalogIsPublic(t *testing.T) {
	env := newTestEnv()
	env.catalog.On("SearchMovies", mock.Anything, "dune", service.SearchOptions{Page: 2}).Return(&service.SearchResponse{Page: 2, Results: []service.SearchMovie{}, TotalResults: 0}, nil)

	w := env.request(t, http.MethodGet, "/api/tmdb/search?q=dune&page=2", nil, false)

	assert.Equal(t, http.StatusOK, w.Code)
	env.catalog.AssertExpectations(t)
}

// ==================== 画像与推荐 ====================

func TestSuggestTonightParsesFilters(t *testing.T) {
	env := newTestEnv()
	rating := 9
	env.movies.On("SuggestCandidates", testUserID, model.SuggestFilter{MaxMinutes: 120, YearFrom: 1990, YearTo: 2000}, 25).Return([]model.SuggestCandidate{
		{Movie: model.Movie{Title: "Heat", Year: 1995, Runtime: 170, Genres: []string{"Crime"}}, Rating: &rating},
		{Movie: model.Movie{Title: "Scream", Year: 1996, Runtime: 111, Genres: []string{"Horror"}}},
	}, nil)

	w := env.request(t, http.MethodGet, "/api/suggest?maxMinutes=120&yearFrom=1990&yearTo=2000&avoid=horror", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	suggestions := body["suggestions"].([]interface{})
	require.Len(t, suggestions, 1)
	first := suggestions[0].(map[string]interface{})
	assert.Equal(t, "Heat", first["title"])
	env.movies.AssertExpectations(t)
}

func TestSearchMyMoviesRequiresQuery(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodGet, "/api/movies/search", nil, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.movies.AssertNotCalled(t, "SearchMine", mock.Anything, mock.Anything, mock.Anything)
}
