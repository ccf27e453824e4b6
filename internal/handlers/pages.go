// internal/handlers/pages.go
package handlers

import (
	_ "embed"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

//go:embed words.txt
var defaultWords string

// gamePathRE matches the three-word game routes, e.g. /maple-otter-comet.
var gamePathRE = regexp.MustCompile(`^/\w+-\w+-\w+$`)

// LoadWords returns the pool of words used to build game names: the file
// named by WORDS_FILE when set, else the embedded default list. An override
// with fewer than the three words a name needs falls back to the default.
func LoadWords() []string {
	if path := os.Getenv("WORDS_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if words := parseWords(string(data)); len(words) >= 3 {
				return words
			}
		}
	}
	return parseWords(defaultWords)
}

func parseWords(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		if word := strings.TrimSpace(line); word != "" {
			words = append(words, strings.ToLower(word))
		}
	}
	return words
}

// RandomGameName builds a game name from three distinct random words.
func (s *Server) RandomGameName() string {
	idx := rand.Perm(len(s.Words))[:3]
	return s.Words[idx[0]] + "-" + s.Words[idx[1]] + "-" + s.Words[idx[2]]
}

// PageHandler serves the page surface: the root redirects to a freshly named
// game, and any three-word game route renders the game page.
func (s *Server) PageHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/"+s.RandomGameName(), http.StatusFound)
			return
		}
		if gamePathRE.MatchString(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(staticDir, "game.html"))
			return
		}
		http.NotFound(w, r)
	}
}
