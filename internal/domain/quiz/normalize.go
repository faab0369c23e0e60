package quiz

import "strings"

// NormalizeAnswer канонизирует ответ для сравнения: нижний регистр, только [a-z0-9].
// Применяется и к ответу карточки при снимке колоды, и к каждой догадке.
func NormalizeAnswer(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}
