package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviemind/internal/middleware"
	"moviemind/internal/models"
	"moviemind/internal/preferences"
	"moviemind/internal/session"
	"moviemind/internal/tmdb"
)

var errDown = &tmdb.Error{Op: "test", Kind: tmdb.ErrTransport, Err: errors.New("connection refused")}

func movies(prefix, n int) []models.Movie {
	out := make([]models.Movie, 0, n)
	for i := range n {
		out = append(out, models.Movie{ID: prefix*100 + i, Title: fmt.Sprintf("movie %d-%d", prefix, i)})
	}
	return out
}

type fakeGateway struct {
	detailErr   error
	trending    []models.Movie
	trendingErr error
	perGenre    int
	genreCalls  []int
	peopleErr   error

	combinedCalls [][]int

	requestToken string
	sessionID    string
	guestID      string
	deleted      []string
	favorites    []int
}

func (f *fakeGateway) DiscoverByGenre(_ context.Context, genreID int) ([]models.Movie, error) {
	f.genreCalls = append(f.genreCalls, genreID)
	return movies(genreID, f.perGenre), nil
}

func (f *fakeGateway) DiscoverByGenres(_ context.Context, genreIDs []int) ([]models.Movie, error) {
	f.combinedCalls = append(f.combinedCalls, genreIDs)
	return movies(genreIDs[0], 2), nil
}

func (f *fakeGateway) DiscoverByKeyword(_ context.Context, keywordID int) ([]models.Movie, error) {
	return movies(keywordID, 3), nil
}

func (f *fakeGateway) SearchKeywords(context.Context, string) ([]models.Keyword, error) {
	return []models.Keyword{{ID: 9882, Name: "space"}}, nil
}

func (f *fakeGateway) SearchPeople(context.Context, string, int) ([]models.Person, error) {
	if f.peopleErr != nil {
		return []models.Person{}, f.peopleErr
	}
	return []models.Person{{ID: 21684, Name: "봉준호", KnownFor: []string{}}}, nil
}

func (f *fakeGateway) PersonMovies(_ context.Context, personID int) ([]models.Movie, error) {
	return movies(personID, 12), nil
}

func (f *fakeGateway) SimilarMovies(_ context.Context, movieID, _ int) ([]models.Movie, error) {
	return movies(movieID, 20), nil
}

func (f *fakeGateway) RecommendedMovies(_ context.Context, movieID int) ([]models.Movie, error) {
	return movies(movieID, 4), nil
}

func (f *fakeGateway) TrendingMovies(context.Context) ([]models.Movie, error) {
	if f.trendingErr != nil {
		return []models.Movie{}, f.trendingErr
	}
	return f.trending, nil
}

func (f *fakeGateway) MovieDetails(_ context.Context, movieID int) (models.MovieDetail, error) {
	if f.detailErr != nil {
		return models.MovieDetail{}, f.detailErr
	}
	return models.MovieDetail{Movie: models.Movie{ID: movieID, Title: "기생충"}, FullOverview: "full"}, nil
}

func (f *fakeGateway) MovieCredits(context.Context, int) (models.Credits, error) {
	return models.Credits{Directors: []string{"봉준호"}, Cast: []string{"송강호"}}, nil
}

func (f *fakeGateway) MoviesByCategory(context.Context, string) ([]models.Movie, error) {
	return movies(1, 8), nil
}

func (f *fakeGateway) Reviews(context.Context, int, int) ([]models.Review, error) {
	return []models.Review{{Author: "critic", Content: "good"}}, nil
}

func (f *fakeGateway) TrendingTV(context.Context) ([]models.TVShow, error) {
	return []models.TVShow{{ID: 1, Name: "show"}}, nil
}

func (f *fakeGateway) TrendingPeople(context.Context) ([]models.Person, error) {
	return []models.Person{{ID: 2, Name: "person"}}, nil
}

func (f *fakeGateway) Genres(context.Context) ([]models.Genre, error) {
	return []models.Genre{{ID: 28, Name: "액션"}}, nil
}

func (f *fakeGateway) SearchMovies(context.Context, string, int) ([]models.Movie, error) {
	return movies(5, 2), nil
}

func (f *fakeGateway) AddFavorite(_ context.Context, _ string, movieID int) error {
	f.favorites = append(f.favorites, movieID)
	return nil
}

func (f *fakeGateway) FavoriteMovies(context.Context, string, int) ([]models.Movie, error) {
	out := make([]models.Movie, 0, len(f.favorites))
	for _, id := range f.favorites {
		out = append(out, models.Movie{ID: id})
	}
	return out, nil
}

func (f *fakeGateway) CreateRequestToken(context.Context) (string, error) {
	return f.requestToken, nil
}

func (f *fakeGateway) CreateSession(context.Context, string) (string, error) {
	return f.sessionID, nil
}

func (f *fakeGateway) CreateGuestSession(context.Context) (string, error) {
	return f.guestID, nil
}

func (f *fakeGateway) DeleteSession(_ context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	return nil
}

type fakeGenerator struct {
	configured bool
	prompt     string
}

func (g *fakeGenerator) Configured() bool { return g.configured }

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return "오늘은 코미디 어떠세요?", nil
}

type testAPI struct {
	t   *testing.T
	app *fiber.App
	key string
}

func newTestAPI(t *testing.T, gw *fakeGateway, gen *fakeGenerator) *testAPI {
	t.Helper()
	if gen == nil {
		gen = &fakeGenerator{}
	}
	h := New(
		gw,
		session.NewManager(gw, "https://www.themoviedb.org/authenticate"),
		preferences.NewStore(preferences.NewFileStore(t.TempDir())),
		gen,
	)
	app := fiber.New()
	app.Use(middleware.Session(session.NewMemoryRegistry()))
	h.Register(app.Group("/api/v1"))
	return &testAPI{t: t, app: app}
}

// call issues a request carrying the current session key and decodes the
// JSON response into out when out is not nil.
func (a *testAPI) call(method, path string, body any, out any) int {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.key != "" {
		req.Header.Set(middleware.SessionHeader, a.key)
	}

	resp, err := a.app.Test(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if key := resp.Header.Get(middleware.SessionHeader); key != "" {
		a.key = key
	}
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{}, nil)
	var body map[string]string
	assert.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestMovieDetail(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{}, nil)
	var detail models.MovieDetail
	assert.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/movies/496243", nil, &detail))
	assert.Equal(t, 496243, detail.ID)
	assert.Equal(t, "full", detail.FullOverview)

	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodGet, "/api/v1/movies/abc", nil, nil))
}

func TestMovieDetail_ErrorMapping(t *testing.T) {
	notFound := newTestAPI(t, &fakeGateway{detailErr: &tmdb.Error{Op: "movie details", Status: 404, Kind: tmdb.ErrNotFound}}, nil)
	var body ErrorResponse
	assert.Equal(t, fiber.StatusNotFound, notFound.call(http.MethodGet, "/api/v1/movies/1", nil, &body))
	assert.Equal(t, "movie not found", body.Error)

	down := newTestAPI(t, &fakeGateway{detailErr: errDown}, nil)
	assert.Equal(t, fiber.StatusBadGateway, down.call(http.MethodGet, "/api/v1/movies/1", nil, &body))
	assert.Equal(t, msgUpstream, body.Error)
	assert.NotContains(t, body.Error, "refused")
}

func TestMoviesByCategory(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{}, nil)
	var list models.MovieListResponse
	assert.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/movies/category/top_rated", nil, &list))
	assert.Len(t, list.Movies, 8)

	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodGet, "/api/v1/movies/category/latest", nil, nil))
}

func TestRecommendations_FallsBackToTrending(t *testing.T) {
	gw := &fakeGateway{trending: movies(7, 15)}
	api := newTestAPI(t, gw, nil)

	var resp models.RecommendationResponse
	assert.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/recommendations", nil, &resp))
	assert.Equal(t, "trending", resp.Source)
	assert.True(t, resp.Fallback)
	assert.Len(t, resp.Recommendations, 10)
	assert.Empty(t, gw.genreCalls)
}

func TestRecommendations_FallbackFailure(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{trendingErr: errDown}, nil)
	assert.Equal(t, fiber.StatusBadGateway, api.call(http.MethodGet, "/api/v1/recommendations", nil, nil))
}

func TestGuestPreferencesDriveRecommendations(t *testing.T) {
	gw := &fakeGateway{guestID: "guest-1", perGenre: 4}
	api := newTestAPI(t, gw, nil)

	var status models.AuthStatusResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodPost, "/api/v1/auth/guest", nil, &status))
	assert.True(t, status.Guest)

	req := models.SetPreferenceRequest{PreferredGenres: []string{"코미디", "없는장르", "드라마"}}
	var saved models.UserPreferences
	require.Equal(t, fiber.StatusOK, api.call(http.MethodPut, "/api/v1/preferences", req, &saved))
	assert.Equal(t, []string{}, saved.WatchedMovies)

	var loaded models.UserPreferences
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/preferences", nil, &loaded))
	assert.Equal(t, saved, loaded)

	var resp models.RecommendationResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/recommendations", nil, &resp))
	assert.Equal(t, "preferences", resp.Source)
	assert.False(t, resp.Fallback)
	assert.Equal(t, []int{35, 18}, gw.genreCalls)
	assert.Len(t, resp.Recommendations, 8)
}

func TestSetPreferences_Validation(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{}, nil)

	var body ErrorResponse
	req := models.SetPreferenceRequest{PreferredGenres: []string{"액션", ""}}
	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodPut, "/api/v1/preferences", req, &body))
	assert.Contains(t, body.Error, "preferred_genres[1] is required")
}

func TestMoodRecommendations(t *testing.T) {
	gw := &fakeGateway{perGenre: 6}
	api := newTestAPI(t, gw, nil)

	var resp models.RecommendationResponse
	path := "/api/v1/recommendations/mood/%ED%96%89%EB%B3%B5%ED%95%9C" // 행복한
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, path, nil, &resp))
	assert.Equal(t, []int{35, 10751}, gw.genreCalls)
	require.Len(t, resp.Recommendations, 10)
	assert.Equal(t, 3500, resp.Recommendations[0].ID)
	assert.Equal(t, 1075100, resp.Recommendations[6].ID)

	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodGet, "/api/v1/recommendations/mood/sleepy", nil, nil))
}

func TestMoods(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{}, nil)
	var body map[string][]string
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/recommendations/moods", nil, &body))
	assert.Equal(t, "행복한", body["moods"][0])
}

func TestKeywordAndPersonRecommendations(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{}, nil)

	var resp models.RecommendationResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/recommendations/keyword?q=space", nil, &resp))
	assert.Equal(t, "keyword", resp.Source)
	assert.Len(t, resp.Recommendations, 3)

	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/recommendations/person?q=bong", nil, &resp))
	assert.Equal(t, "person", resp.Source)
	assert.Len(t, resp.Recommendations, 10)

	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodGet, "/api/v1/recommendations/person", nil, nil))
}

func TestNarrative(t *testing.T) {
	unconfigured := newTestAPI(t, &fakeGateway{}, &fakeGenerator{})
	assert.Equal(t, fiber.StatusServiceUnavailable,
		unconfigured.call(http.MethodPost, "/api/v1/recommendations/narrative", models.NarrativeRequest{}, nil))

	gen := &fakeGenerator{configured: true}
	api := newTestAPI(t, &fakeGateway{}, gen)
	require.Equal(t, fiber.StatusOK, api.call(http.MethodPut, "/api/v1/preferences",
		models.SetPreferenceRequest{PreferredGenres: []string{"코미디"}}, nil))

	var resp models.NarrativeResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodPost, "/api/v1/recommendations/narrative",
		models.NarrativeRequest{AdditionalInfo: "가볍게 볼 영화 추천 해줘"}, &resp))
	assert.Equal(t, "오늘은 코미디 어떠세요?", resp.Narrative)
	assert.Contains(t, gen.prompt, "- 선호 장르: 코미디")
	assert.Contains(t, gen.prompt, "- 추가 정보: 가볍게 볼 영화 추천\n")
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{peopleErr: errDown}, nil)

	var resp models.SearchResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/search?q=space", nil, &resp))
	assert.Equal(t, "space", resp.Query)
	assert.Len(t, resp.Movies, 2)
	assert.NotNil(t, resp.People)
	assert.Empty(t, resp.People)
	assert.Len(t, resp.Keywords, 1)

	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodGet, "/api/v1/search?q=%20", nil, nil))
}

func TestHome(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{trending: movies(3, 9)}, nil)

	var body struct {
		Sections []models.HomeSection `json:"sections"`
	}
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/home", nil, &body))
	require.Len(t, body.Sections, 5)
	assert.Equal(t, "trending", body.Sections[0].Key)
	assert.Equal(t, "recommended", body.Sections[4].Key)
	for _, s := range body.Sections {
		assert.Len(t, s.Movies, 5, s.Key)
	}
}

func TestLoginFavoritesLogout(t *testing.T) {
	gw := &fakeGateway{requestToken: "req-1", sessionID: "sess-1"}
	api := newTestAPI(t, gw, nil)

	assert.Equal(t, fiber.StatusUnauthorized, api.call(http.MethodGet, "/api/v1/favorites", nil, nil))

	var login models.LoginResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodPost, "/api/v1/auth/login", nil, &login))
	assert.Equal(t, "https://www.themoviedb.org/authenticate/req-1", login.AuthURL)
	assert.Equal(t, "pending_authorization", login.State)

	var status models.AuthStatusResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodPost, "/api/v1/auth/login/complete", nil, &status))
	assert.True(t, status.Authenticated)

	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodPost, "/api/v1/favorites", models.FavoriteRequest{}, nil))
	require.Equal(t, fiber.StatusCreated, api.call(http.MethodPost, "/api/v1/favorites", models.FavoriteRequest{MovieID: 550}, nil))

	var favs models.MovieListResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/favorites", nil, &favs))
	require.Len(t, favs.Movies, 1)
	assert.Equal(t, 550, favs.Movies[0].ID)

	require.Equal(t, fiber.StatusOK, api.call(http.MethodPost, "/api/v1/auth/logout", nil, &status))
	assert.Equal(t, "anonymous", status.State)
	assert.Equal(t, []string{"sess-1"}, gw.deleted)
}

func TestCompleteLogin_Failure(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{requestToken: "req-1"}, nil)

	require.Equal(t, fiber.StatusOK, api.call(http.MethodPost, "/api/v1/auth/login", nil, nil))

	var body ErrorResponse
	assert.Equal(t, fiber.StatusUnauthorized, api.call(http.MethodPost, "/api/v1/auth/login/complete", nil, &body))
	assert.Equal(t, session.ErrNoSession.Error(), body.Error)

	var status models.AuthStatusResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/auth/status", nil, &status))
	assert.Equal(t, "anonymous", status.State)

	assert.Equal(t, fiber.StatusConflict, api.call(http.MethodPost, "/api/v1/auth/login/complete", nil, nil))
}

func TestBrowseEndpoints(t *testing.T) {
	api := newTestAPI(t, &fakeGateway{trending: movies(1, 3)}, nil)

	paths := []string{
		"/api/v1/movies/trending",
		"/api/v1/movies/550/credits",
		"/api/v1/movies/550/similar?page=2",
		"/api/v1/movies/550/recommendations",
		"/api/v1/movies/550/reviews",
		"/api/v1/tv/trending",
		"/api/v1/people/trending",
		"/api/v1/people/21684/movies",
		"/api/v1/genres",
		"/api/v1/genres/28/movies",
		"/api/v1/keywords/9882/movies",
		"/api/v1/preferences/genres",
		"/api/v1/recommendations/similar/550",
	}
	for _, path := range paths {
		assert.Equal(t, fiber.StatusOK, api.call(http.MethodGet, path, nil, nil), path)
	}

	var similar models.MovieListResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/movies/550/similar?page=2", nil, &similar))
	assert.Equal(t, 2, similar.Page)
	assert.Len(t, similar.Movies, 20)
}

func TestCombinedGenreMovies(t *testing.T) {
	gw := &fakeGateway{}
	api := newTestAPI(t, gw, nil)

	var list models.MovieListResponse
	require.Equal(t, fiber.StatusOK, api.call(http.MethodGet, "/api/v1/genres/movies?ids=28,%2012", nil, &list))
	assert.Len(t, list.Movies, 2)
	assert.Equal(t, [][]int{{28, 12}}, gw.combinedCalls)

	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodGet, "/api/v1/genres/movies", nil, nil))
	assert.Equal(t, fiber.StatusBadRequest, api.call(http.MethodGet, "/api/v1/genres/movies?ids=28,abc", nil, nil))
	assert.Len(t, gw.combinedCalls, 1)
}
