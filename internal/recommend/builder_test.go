package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviemind/internal/models"
)

type fakeGateway struct {
	genreCalls []int
	perGenre   int
	failGenres map[int]bool

	keywords      []models.Keyword
	keywordMovies []models.Movie
	people        []models.Person
	personMovies  []models.Movie
	trending      []models.Movie
	err           error
}

func (f *fakeGateway) DiscoverByGenre(_ context.Context, genreID int) ([]models.Movie, error) {
	f.genreCalls = append(f.genreCalls, genreID)
	if f.failGenres[genreID] {
		return []models.Movie{}, errors.New("boom")
	}
	return moviesFor(genreID, f.perGenre), nil
}

func (f *fakeGateway) DiscoverByKeyword(context.Context, int) ([]models.Movie, error) {
	return f.keywordMovies, f.err
}

func (f *fakeGateway) SearchKeywords(context.Context, string) ([]models.Keyword, error) {
	return f.keywords, f.err
}

func (f *fakeGateway) SearchPeople(context.Context, string, int) ([]models.Person, error) {
	return f.people, f.err
}

func (f *fakeGateway) PersonMovies(context.Context, int) ([]models.Movie, error) {
	return f.personMovies, f.err
}

func (f *fakeGateway) SimilarMovies(_ context.Context, movieID, _ int) ([]models.Movie, error) {
	return moviesFor(movieID, 15), f.err
}

func (f *fakeGateway) TrendingMovies(context.Context) ([]models.Movie, error) {
	return f.trending, f.err
}

func moviesFor(genreID, n int) []models.Movie {
	movies := make([]models.Movie, 0, n)
	for i := range n {
		movies = append(movies, models.Movie{ID: genreID*100 + i, Title: fmt.Sprintf("%d-%d", genreID, i)})
	}
	return movies
}

func TestForMood_CallsGenresInOrder(t *testing.T) {
	gw := &fakeGateway{perGenre: 3}
	b := NewBuilder(gw)

	movies, err := b.ForMood(t.Context(), "행복한")
	require.NoError(t, err)
	assert.Equal(t, []int{35, 10751}, gw.genreCalls)
	require.Len(t, movies, 6)
	assert.Equal(t, 3500, movies[0].ID)
	assert.Equal(t, 1075100, movies[3].ID)
}

func TestForMood_Unknown(t *testing.T) {
	gw := &fakeGateway{perGenre: 3}
	movies, err := NewBuilder(gw).ForMood(t.Context(), "졸린")

	assert.ErrorIs(t, err, ErrUnknownMood)
	assert.Empty(t, movies)
	assert.Empty(t, gw.genreCalls)
}

func TestForPreferences_TruncatesWithoutDedup(t *testing.T) {
	gw := &fakeGateway{perGenre: 20}
	prefs := models.UserPreferences{PreferredGenres: []string{"드라마", "액션"}}

	movies := NewBuilder(gw).ForPreferences(t.Context(), prefs)
	assert.Equal(t, []int{18, 28}, gw.genreCalls)
	require.Len(t, movies, MaxRecommendations)
	for i, m := range movies {
		assert.Equal(t, 1800+i, m.ID)
	}
}

func TestForPreferences_KeepsDuplicates(t *testing.T) {
	gw := &fakeGateway{perGenre: 2}
	prefs := models.UserPreferences{PreferredGenres: []string{"코미디", "코미디"}}

	movies := NewBuilder(gw).ForPreferences(t.Context(), prefs)
	assert.Equal(t, []int{35, 35}, gw.genreCalls)
	assert.Len(t, movies, 4)
	assert.Equal(t, movies[0], movies[2])
}

func TestForPreferences_DropsUnknownGenres(t *testing.T) {
	gw := &fakeGateway{perGenre: 1}
	prefs := models.UserPreferences{PreferredGenres: []string{"뮤지컬", "공포", "서부극", "역사"}}

	movies := NewBuilder(gw).ForPreferences(t.Context(), prefs)
	assert.Equal(t, []int{27, 36}, gw.genreCalls)
	assert.Len(t, movies, 2)
}

func TestForPreferences_EmptyMakesNoCalls(t *testing.T) {
	gw := &fakeGateway{perGenre: 5}

	movies := NewBuilder(gw).ForPreferences(t.Context(), models.EmptyPreferences())
	assert.Empty(t, gw.genreCalls)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestForPreferences_SkipsFailedGenre(t *testing.T) {
	gw := &fakeGateway{perGenre: 2, failGenres: map[int]bool{28: true}}
	prefs := models.UserPreferences{PreferredGenres: []string{"액션", "SF"}}

	movies := NewBuilder(gw).ForPreferences(t.Context(), prefs)
	assert.Equal(t, []int{28, 878}, gw.genreCalls)
	require.Len(t, movies, 2)
	assert.Equal(t, 87800, movies[0].ID)
}

func TestForKeyword_UsesFirstHit(t *testing.T) {
	gw := &fakeGateway{
		keywords:      []models.Keyword{{ID: 9882, Name: "space"}, {ID: 1, Name: "spaceship"}},
		keywordMovies: moviesFor(9, 12),
	}

	movies, err := NewBuilder(gw).ForKeyword(t.Context(), "space")
	require.NoError(t, err)
	assert.Len(t, movies, MaxRecommendations)
}

func TestForKeyword_NoHit(t *testing.T) {
	movies, err := NewBuilder(&fakeGateway{}).ForKeyword(t.Context(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestForPerson_PropagatesGatewayError(t *testing.T) {
	gw := &fakeGateway{people: []models.Person{}, err: errors.New("down")}

	movies, err := NewBuilder(gw).ForPerson(t.Context(), "봉준호")
	assert.Error(t, err)
	assert.Empty(t, movies)
}

func TestSimilarAndTrendingAreTruncated(t *testing.T) {
	gw := &fakeGateway{trending: moviesFor(1, 20)}
	b := NewBuilder(gw)

	similar, err := b.Similar(t.Context(), 550)
	require.NoError(t, err)
	assert.Len(t, similar, MaxRecommendations)

	trending, err := b.Trending(t.Context())
	require.NoError(t, err)
	assert.Len(t, trending, MaxRecommendations)
}

func TestSection(t *testing.T) {
	assert.Len(t, Section(moviesFor(1, 8)), SectionSize)
	assert.Len(t, Section(moviesFor(1, 3)), 3)
	assert.NotNil(t, Section(nil))
}
