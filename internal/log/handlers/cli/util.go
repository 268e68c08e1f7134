package cli

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiEscapes = regexp.MustCompile("\x1b\\[[0-9;]*m")

// EscapeAwareRuneCountInString counts the runes of str ignoring
// the ANSI color escape sequences.
func EscapeAwareRuneCountInString(str string) int {
	return utf8.RuneCountInString(ansiEscapes.ReplaceAllString(str, ""))
}

// RightPad pads str with spaces until it is length runes long.
func RightPad(str string, length int) string {
	n := length - EscapeAwareRuneCountInString(str)
	if n <= 0 {
		return str
	}
	return str + strings.Repeat(" ", n)
}
