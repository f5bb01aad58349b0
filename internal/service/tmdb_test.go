package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movievault/internal/config"
)

func newTestCatalog(baseURL string) *TMDBService {
	return NewTMDBService(&config.Config{
		TMDBBaseURL: baseURL,
		TMDBToken:   "test-token",
		TMDBTimeout: 2 * time.Second,
	})
}

func TestSearchMoviesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "dune", r.URL.Query().Get("query"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "2021", r.URL.Query().Get("year"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":2,"results":[{"id":438631,"title":"Dune","release_date":"2021-09-15"}],"total_pages":3,"total_results":55}`))
	}))
	defer server.Close()

	svc := newTestCatalog(server.URL)
	data, err := svc.SearchMovies(context.Background(), "dune", SearchOptions{Page: 2, Year: 2021})
	require.NoError(t, err)
	assert.Equal(t, 55, data.TotalResults)
	require.Len(t, data.Results, 1)
	assert.Equal(t, 438631, data.Results[0].ID)
}

func TestSearchMoviesAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message":"Invalid API key"}`))
	}))
	defer server.Close()

	svc := newTestCatalog(server.URL)
	_, err := svc.SearchMovies(context.Background(), "dune", SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth failed")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestSearchMoviesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	svc := newTestCatalog(server.URL)
	_, err := svc.SearchMovies(context.Background(), "dune", SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TMDB request failed (500)")
	assert.NotContains(t, err.Error(), "auth failed")
}

func TestErrorBodyTruncated(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(long)
	}))
	defer server.Close()

	svc := newTestCatalog(server.URL)
	_, err := svc.SearchMovies(context.Background(), "dune", SearchOptions{})
	require.Error(t, err)

	var catalogErr *CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Len(t, catalogErr.Body, 200)
}

func TestMissingTokenFailsFast(t *testing.T) {
	svc := NewTMDBService(&config.Config{TMDBTimeout: time.Second})
	_, err := svc.SearchMovies(context.Background(), "dune", SearchOptions{})
	require.Error(t, err)
}

func TestMovieDetailsMemoized(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/movie/603", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,"release_date":"1999-03-30","genres":[{"id":28,"name":"Action"}]}`))
	}))
	defer server.Close()

	svc := newTestCatalog(server.URL)

	first, err := svc.MovieDetails(context.Background(), 603)
	require.NoError(t, err)
	second, err := svc.MovieDetails(context.Background(), 603)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, hits)
}

func TestTrendingCached(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/trending/movie/week", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	}))
	defer server.Close()

	svc := newTestCatalog(server.URL)

	_, err := svc.Trending(context.Background())
	require.NoError(t, err)
	_, err = svc.Trending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestMovieFromDetails(t *testing.T) {
	movie := MovieFromDetails(&MovieDetails{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-30",
		Runtime:     136,
		Genres:      []Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
	})

	assert.Equal(t, 603, movie.TMDBID)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, 1999, movie.Year)
	assert.Equal(t, 136, movie.Runtime)
	assert.Equal(t, []string{"Action", "Science Fiction"}, []string(movie.Genres))
}

func TestMovieFromDetailsFallbacks(t *testing.T) {
	// 电视剧条目走 name/first_air_date
	tv := MovieFromDetails(&MovieDetails{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17"})
	assert.Equal(t, "Game of Thrones", tv.Title)
	assert.Equal(t, 2011, tv.Year)

	blank := MovieFromDetails(&MovieDetails{ID: 1})
	assert.Equal(t, "Untitled", blank.Title)
	assert.Equal(t, 0, blank.Year)
}
