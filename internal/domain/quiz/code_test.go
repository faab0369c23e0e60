package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeGenerator_Generate(t *testing.T) {
	gen := NewCodeGenerator()

	for i := 0; i < 1000; i++ {
		code := gen.Generate()

		assert.Len(t, code, CodeLength)
		assert.True(t, IsValidCode(code), "code %q uses characters outside the alphabet", code)
	}
}

func TestCodeAlphabet_NoAmbiguousCharacters(t *testing.T) {
	for _, c := range "O0I1" {
		assert.False(t, strings.ContainsRune(CodeAlphabet, c), "alphabet contains %q", c)
	}

	assert.Len(t, CodeAlphabet, 32)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABCDEF", NormalizeCode(" abcDef "))
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("ABC234"))
	assert.False(t, IsValidCode("ABC23"))
	assert.False(t, IsValidCode("ABCDE0"))
	assert.False(t, IsValidCode("abcdef"))
}
