package recommend

// GenreEntry maps a Korean genre label to its TMDB genre id.
type GenreEntry struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// MoodEntry maps a mood label to the genres it is served from, in call order.
type MoodEntry struct {
	Name     string `json:"name"`
	GenreIDs []int  `json:"genre_ids"`
}

// GenreMap is the fixed genre table in display order.
var GenreMap = []GenreEntry{
	{"액션", 28},
	{"코미디", 35},
	{"드라마", 18},
	{"로맨스", 10749},
	{"스릴러", 53},
	{"SF", 878},
	{"애니메이션", 16},
	{"판타지", 14},
	{"공포", 27},
	{"다큐멘터리", 99},
	{"역사", 36},
}

// MoodMap is the fixed mood table in display order.
var MoodMap = []MoodEntry{
	{"행복한", []int{35, 10751}},
	{"슬픈", []int{18, 10749}},
	{"신나는", []int{28, 12}},
	{"로맨틱한", []int{10749, 35}},
	{"무서운", []int{27, 53}},
	{"미스터리한", []int{9648, 80}},
	{"판타지한", []int{14, 12}},
	{"편안한", []int{99, 10770}},
	{"추억을 떠올리는", []int{10752, 36}},
	{"SF 같은", []int{878, 28}},
}

var (
	genreIndex = make(map[string]int, len(GenreMap))
	moodIndex  = make(map[string][]int, len(MoodMap))
)

func init() {
	for _, g := range GenreMap {
		genreIndex[g.Name] = g.ID
	}
	for _, m := range MoodMap {
		moodIndex[m.Name] = m.GenreIDs
	}
}

// GenreIDs maps genre names to TMDB ids in the order given. Names missing
// from GenreMap are dropped.
func GenreIDs(names []string) []int {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		if id, ok := genreIndex[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// MoodGenreIDs returns the genre ids for a mood, or false for an unknown mood.
func MoodGenreIDs(mood string) ([]int, bool) {
	ids, ok := moodIndex[mood]
	if !ok {
		return nil, false
	}
	out := make([]int, len(ids))
	copy(out, ids)
	return out, true
}

// GenreNames lists the selectable genre labels.
func GenreNames() []string {
	names := make([]string, 0, len(GenreMap))
	for _, g := range GenreMap {
		names = append(names, g.Name)
	}
	return names
}

// Moods lists the selectable mood labels.
func Moods() []string {
	names := make([]string, 0, len(MoodMap))
	for _, m := range MoodMap {
		names = append(names, m.Name)
	}
	return names
}
