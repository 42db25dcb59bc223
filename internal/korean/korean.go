// Package korean classifies the runes the lexer accepts as part of a
// builtin name, variable name, or keyword: ASCII letters and underscore,
// plus the Hangul Jamo and syllable ranges.
package korean

// IsLetter reports whether r can start or continue an identifier, ignoring
// digits (callers check digits separately since a leading digit forces a
// number literal).
func IsLetter(r rune) bool {
	switch {
	case r == '_':
		return true
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		return true
	case 'ㄱ' <= r && r <= 'ㅎ': // compatibility jamo consonants
		return true
	case 'ㅏ' <= r && r <= 'ㅣ': // compatibility jamo vowels
		return true
	case '가' <= r && r <= '힣': // precomposed syllables
		return true
	default:
		return false
	}
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// IsIdentChar reports whether r may appear anywhere in an identifier body.
func IsIdentChar(r rune) bool {
	return IsLetter(r) || IsDigit(r)
}
