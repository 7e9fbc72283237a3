package layout

// splitLines tokenizes s into the pieces LineStorage stores as lines:
// each recognized line-ending sequence (LF, CR, CRLF) ends its own
// token, and the text after the last one (possibly empty) forms the
// trailing token — the terminal line when s is the whole document.
func splitLines(s string) []string {
	runes := []rune(s)
	var out []string
	start := 0
	i := 0
	for i < len(runes) {
		switch runes[i] {
		case '\n':
			out = append(out, string(runes[start:i+1]))
			i++
			start = i
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				out = append(out, string(runes[start:i+2]))
				i += 2
			} else {
				out = append(out, string(runes[start:i+1]))
				i++
			}
			start = i
		default:
			i++
		}
	}
	out = append(out, string(runes[start:]))
	return out
}

// codeUnitOffsets returns the cumulative UTF-16 length of runes[:i] for
// every i in [0, len(runes)], letting callers translate a rune index
// produced by typeset.Typesetter back into the document's UTF-16
// code-unit coordinate space.
func codeUnitOffsets(runes []rune) []int {
	cum := make([]int, len(runes)+1)
	for i, r := range runes {
		n := 1
		if r >= 0x10000 {
			n = 2
		}
		cum[i+1] = cum[i] + n
	}
	return cum
}

// runeIndexForCodeUnit returns the smallest rune index i such that
// cum[i] >= target, clamping to the end of cum.
func runeIndexForCodeUnit(cum []int, target int) int {
	for i, v := range cum {
		if v >= target {
			return i
		}
	}
	return len(cum) - 1
}
