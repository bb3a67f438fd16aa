package strings

// MinTruncateLen is the smallest maxLen TruncateMiddle accepts. Anything
// shorter would not leave room for one rune on each side of the ellipsis.
const MinTruncateLen = 5

const ellipsis = "..."

// TruncateMiddle shortens s to at most maxLen runes by cutting the middle and
// inserting "...". Job names share long prefixes and differ at both ends,
// so keeping head and tail is more useful than cutting the end.
func TruncateMiddle(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	keep := maxLen - len(ellipsis)
	head := (keep + 1) / 2
	tail := keep - head
	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}
