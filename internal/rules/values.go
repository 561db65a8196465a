package rules

import "strings"

// Code wraps s in a <code> element.
func Code(s string) string {
	return "<code>" + s + "</code>"
}

// FriendlyList renders values as an English list of <code> elements:
//
//	[a]       -> <code>a</code>
//	[a b]     -> <code>a</code> or <code>b</code>
//	[a b c]   -> <code>a</code>, <code>b</code>, or <code>c</code>
func FriendlyList(values []string, conjunction string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Code(v)
	}

	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " " + conjunction + " " + quoted[1]
	default:
		last := len(quoted) - 1
		return strings.Join(quoted[:last], ", ") + ", " + conjunction + " " + quoted[last]
	}
}
