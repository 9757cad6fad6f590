// Package words generates the secret tokens players guess at. Words come
// from a newline-separated list on disk, falling back to a built-in list, and
// are filtered to lowercase tokens within the configured length range.
package words

import (
	"bufio"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	MinLength = 4
	MaxLength = 10
)

var fallbackWords = []string{
	"apple", "anchor", "balloon", "banana", "bottle", "bridge", "butterfly",
	"camera", "candle", "castle", "cloud", "compass", "cookie", "dolphin",
	"dragon", "elephant", "feather", "forest", "garden", "giraffe", "guitar",
	"hammer", "island", "jacket", "kangaroo", "ladder", "lantern", "lemon",
	"lighthouse", "mirror", "monkey", "mountain", "mushroom", "notebook",
	"ocean", "octopus", "orange", "panda", "pencil", "penguin", "piano",
	"pirate", "pizza", "planet", "pumpkin", "rabbit", "rainbow", "robot",
	"rocket", "sandwich", "snowman", "spider", "squirrel", "sunflower",
	"telescope", "tiger", "tomato", "treasure", "turtle", "umbrella",
	"unicorn", "volcano", "whale", "window", "wizard", "zebra",
}

type Generator struct {
	words []string
	randn func(int) int
}

// NewGenerator loads the word list at path; an unreadable file falls back to
// the built-in list rather than failing startup.
func NewGenerator(path string) *Generator {
	gen := &Generator{randn: rand.Intn}
	gen.words = filter(loadFromFile(path))
	if len(gen.words) == 0 {
		gen.words = filter(fallbackWords)
	}
	log.Info().Int("count", len(gen.words)).Msg("word list loaded")
	return gen
}

func (g *Generator) Generate() string {
	return g.words[g.randn(len(g.words))]
}

func loadFromFile(path string) []string {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("word list unavailable, using built-in words")
		return nil
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("word list read failed, using built-in words")
		return nil
	}
	return words
}

func filter(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) >= MinLength && len(w) <= MaxLength {
			out = append(out, w)
		}
	}
	return out
}
