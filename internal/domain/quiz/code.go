package quiz

import (
	"crypto/rand"
	"strings"
)

const (
	CodeLength = 6

	// CodeAlphabet без O/0 и I/1. 32 символа, поэтому byte%32 не дает перекоса.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// CodeGenerator выдает короткие коды комнат. Уникальность проверяет реестр.
type CodeGenerator interface {
	Generate() string
}

type randomCodeGenerator struct{}

func NewCodeGenerator() CodeGenerator {
	return randomCodeGenerator{}
}

func (randomCodeGenerator) Generate() string {
	b := make([]byte, CodeLength)
	rand.Read(b)

	for i := range b {
		b[i] = CodeAlphabet[int(b[i])%len(CodeAlphabet)]
	}

	return string(b)
}

// NormalizeCode приводит введенный пользователем код к виду, в котором он хранится
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func IsValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		if strings.IndexByte(CodeAlphabet, code[i]) < 0 {
			return false
		}
	}

	return true
}
