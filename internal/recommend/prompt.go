package recommend

import (
	"fmt"
	"regexp"
	"strings"

	"moviemind/internal/models"
)

// promptPicks is the number of movies the narrative prompt asks for.
const promptPicks = 5

// requestPhrases matches polite request endings as standalone words.
var requestPhrases = regexp.MustCompile(`(^|[^\p{L}\p{N}_])(해줘|알려줘|설명해 줘|말해 줘)([^\p{L}\p{N}_]|$)`)

// CleanInput removes request phrases such as "해줘" from free text and trims it.
// Phrases glued to a preceding word ("추천해줘") are left alone.
func CleanInput(text string) string {
	for {
		out := requestPhrases.ReplaceAllString(text, "${1}${3}")
		if out == text {
			break
		}
		text = out
	}
	return strings.TrimSpace(text)
}

// BuildPrompt renders the narrative prompt from the user's genres and a
// free-text hint.
func BuildPrompt(prefs models.UserPreferences, additionalInfo string) string {
	genres := "없음"
	if len(prefs.PreferredGenres) > 0 {
		genres = strings.Join(prefs.PreferredGenres, ", ")
	}

	var b strings.Builder
	b.WriteString("영화 추천을 생성합니다.\n")
	fmt.Fprintf(&b, "- 선호 장르: %s\n", genres)
	if len(prefs.PreferredStyles) > 0 {
		fmt.Fprintf(&b, "- 선호 스타일: %s\n", strings.Join(prefs.PreferredStyles, ", "))
	}
	if len(prefs.FavoriteMovies) > 0 {
		fmt.Fprintf(&b, "- 좋아하는 영화: %s\n", strings.Join(prefs.FavoriteMovies, ", "))
	}
	fmt.Fprintf(&b, "- 추가 정보: %s\n", CleanInput(additionalInfo))
	fmt.Fprintf(&b, "- TMDb에서 %d개의 영화 추천을 가져와 상세 정보(제목, 개봉일, 평점, 줄거리, 감독, 출연진 포함)를 출력합니다.\n", promptPicks)
	return b.String()
}
