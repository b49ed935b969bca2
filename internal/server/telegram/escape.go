package telegram

import "strings"

// MarkdownV2 requires every reserved character in plain text to be
// backslash-escaped.
var markdownV2Escaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

func EscapeMarkdownV2(s string) string {
	return markdownV2Escaper.Replace(s)
}

// SpoilerText wraps escaped text in spoiler markup so the recipient has to
// tap before reading.
func SpoilerText(s string) string {
	return "||" + EscapeMarkdownV2(s) + "||"
}
