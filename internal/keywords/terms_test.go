package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermWholeWord(t *testing.T) {
	tests := []struct {
		name   string
		term   string
		plural bool
		text   string
		want   bool
	}{
		{"exact word", "men", false, "shirts for men", true},
		{"inside women", "men", false, "shirts for women", false},
		{"possessive", "men", false, "men's kurta", true},
		{"male inside female", "male", false, "female only", false},
		{"case insensitive", "saree", true, "Silk SAREE", true},
		{"plural s", "sneaker", true, "trendy sneakers", true},
		{"plural es", "dress", true, "summer dresses", true},
		{"plural not allowed", "boy", false, "boys only", false},
		{"phrase with extra spaces", "for men", false, "made for   men", true},
		{"hyphenated", "t-shirt", true, "graphic t-shirts", true},
		{"ampersand brand", "h&m", false, "a top from H&M today", true},
		{"ring inside earring", "ring", true, "gold earrings", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTerm(tt.term, tt.plural).In(tt.text))
		})
	}
}

func TestTermCount(t *testing.T) {
	term := NewTerm("men", false)
	assert.Equal(t, 2, term.Count("men and more men, not women"))
	assert.Equal(t, 0, term.Count(""))
}

func TestTermList(t *testing.T) {
	list := NewTermList([]string{"red", "silk", " Red ", "", "party dress"}, true)

	assert.Equal(t, []string{"red", "silk", "party dress"}, list.Words())
	assert.Equal(t, []string{"red", "party dress"}, list.Hits("a red party dress"))

	first, ok := list.First("silk and red")
	assert.True(t, ok)
	assert.Equal(t, "red", first, "first follows list order, not text order")

	assert.False(t, list.Any("blue cotton"))
	assert.True(t, list.Contains("SILK"))
}

func TestAlternationLongestFirst(t *testing.T) {
	list := NewTermList([]string{"shirt", "t-shirt", "formal shirt"}, false)
	assert.Equal(t, `(?:formal\s+shirt|t-shirt|shirt)`, list.Alternation())
}
