package core

// Character code constants
const (
	CharTAB        = 9
	CharSPACE      = 32
	Char0          = 48
	Char9          = 57
	CharA          = 65
	CharZ          = 90
	CharUnderscore = 95
	CharLowerA     = 97
	CharLowerZ     = 122
	CharNBSP       = 160
)

// IsWhitespace checks if a character code represents whitespace
func IsWhitespace(code int) bool {
	return (code >= CharTAB && code <= CharSPACE) || code == CharNBSP
}

// IsDigit checks if a character code represents a digit
func IsDigit(code int) bool {
	return Char0 <= code && code <= Char9
}

// IsAsciiLetter checks if a character code represents an ASCII letter
func IsAsciiLetter(code int) bool {
	return (code >= CharLowerA && code <= CharLowerZ) || (code >= CharA && code <= CharZ)
}

// IsIdentifierStart checks if a character code may start a generated identifier
func IsIdentifierStart(code int) bool {
	return IsAsciiLetter(code) || code == CharUnderscore
}

// IsIdentifierPart checks if a character code may continue a generated identifier
func IsIdentifierPart(code int) bool {
	return IsIdentifierStart(code) || IsDigit(code)
}

// IsBlank reports whether s holds nothing but whitespace
func IsBlank(s string) bool {
	for _, r := range s {
		if !IsWhitespace(int(r)) {
			return false
		}
	}
	return true
}
