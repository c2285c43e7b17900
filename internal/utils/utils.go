package utils

import (
	"strings"
	"unicode"
)

const ellipsis = "..."

// IsBlank は文字列が空、または空白文字のみで構成されているかを返します。
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// TruncateText は文字列を指定された最大長(rune数)に切り詰めます。
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > len(ellipsis) {
		return string(runes[:maxLen-len(ellipsis)]) + ellipsis
	}
	return string(runes[:maxLen])
}

// TruncateLines は文字列を最大文字数と最大行数に収め、切り詰めた場合は末尾に省略記号を付けます。
// 0 以下の上限は無制限として扱います。ログにプロンプトや応答のプレビューを出す際に使います。
func TruncateLines(s string, maxChars int, maxLines int) string {
	lines := strings.Split(s, "\n")
	cut := false
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		cut = true
	}
	out := strings.Join(lines, "\n")

	if maxChars > 0 && len([]rune(out)) > maxChars {
		return TruncateText(out, maxChars)
	}
	if cut && !strings.HasSuffix(out, ellipsis) {
		out += ellipsis
	}
	return out
}
