package comment

import (
	"testing"

	"yatube/internal/core/post"

	"github.com/stretchr/testify/assert"
)

func TestExcerptMatchesPostExcerpt(t *testing.T) {
	for _, text := range []string{"short", "exactly fifteen", "привет, это длинный комментарий"} {
		c := Comment{Text: text}
		p := post.Post{Text: text}
		assert.Equal(t, p.Excerpt(), c.Excerpt(), text)
		assert.LessOrEqual(t, len([]rune(c.Excerpt())), post.ExcerptLength, text)
	}
	assert.Equal(t, "привет, это дли", Comment{Text: "привет, это длинный комментарий"}.Excerpt())
}
