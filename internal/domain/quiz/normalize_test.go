package quiz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswer(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Paris!", "paris"},
		{"  paris ", "paris"},
		{"Paris ", "paris"},
		{"Pari", "pari"},
		{"New-York City", "newyorkcity"},
		{"2 + 2 = 4", "224"},
		{"Éclair", "clair"},
		{"???", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeAnswer(tc.in))
		})
	}
}

func TestNormalizeAnswer_Comparison(t *testing.T) {
	assert.Equal(t, NormalizeAnswer("Paris!"), NormalizeAnswer("  paris "))
	assert.NotEqual(t, NormalizeAnswer("Paris "), NormalizeAnswer("Pari"))
}

func TestNewCard_NormalizesAnswer(t *testing.T) {
	card := NewCard(uuid.New(), "Capital of France?", "Paris!")

	assert.Equal(t, "Paris!", card.Answer)
	assert.Equal(t, "paris", card.NormalizedAnswer)
}
