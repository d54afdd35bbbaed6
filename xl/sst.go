package xl

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Excel limits.
const (
	MaxStringLength  = 32_767
	MaxSharedStrings = 1<<31 - 1
)

// sstEntry is either a plain string or a rich string made of runs.
type sstEntry struct {
	text string
	runs []RichRun
}

// sharedStrings is the workbook's string interner: append-only, insertion
// order is the on-disk index order.
type sharedStrings struct {
	entries []sstEntry
	index   map[string]int
	count   int // total references, written as the sst count attribute
	frozen  bool
}

func newSharedStrings() *sharedStrings {
	return &sharedStrings{index: map[string]int{}}
}

// intern returns the index of s, appending it the first time it is seen.
func (t *sharedStrings) intern(s string) int {
	t.count++
	key := "s" + s
	if i, ok := t.index[key]; ok {
		return i
	}
	i := len(t.entries)
	t.entries = append(t.entries, sstEntry{text: s})
	t.index[key] = i
	return i
}

// internRich stores a rich string under a key built from its runs, so the
// same runs with the same styles share one entry.
func (t *sharedStrings) internRich(runs []RichRun) int {
	t.count++
	var sb strings.Builder
	sb.WriteByte('r')
	for _, r := range runs {
		sb.WriteString(strconv.Itoa(int(r.Style)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(len(r.Text)))
		sb.WriteByte(':')
		sb.WriteString(r.Text)
	}
	key := sb.String()
	if i, ok := t.index[key]; ok {
		return i
	}
	i := len(t.entries)
	t.entries = append(t.entries, sstEntry{runs: append([]RichRun(nil), runs...)})
	t.index[key] = i
	return i
}

func (t *sharedStrings) unique() int {
	return len(t.entries)
}

// checkText validates a string that will be stored in a cell.
func checkText(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	if utf8.RuneCountInString(s) > MaxStringLength {
		return ErrMaxStringLength
	}
	return nil
}

// escapeControl replaces characters XML 1.0 can not carry with the OOXML
// _xHHHH_ escape. A literal "_xHHHH_" sequence in the input is protected by
// escaping its leading underscore.
func escapeControl(s string) string {
	needs := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 && c != '\t' && c != '\n' && c != '\r') || (c == '_' && looksEscaped(s[i:])) {
			needs = true
			break
		}
	}
	if !needs {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c < 0x20 && c != '\t' && c != '\n' && c != '\r':
			sb.WriteString("_x00")
			sb.WriteByte("0123456789ABCDEF"[c>>4])
			sb.WriteByte("0123456789ABCDEF"[c&0xF])
			sb.WriteByte('_')
		case c == '_' && looksEscaped(s[i:]):
			sb.WriteString("_x005F_")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func looksEscaped(s string) bool {
	if len(s) < 7 || s[0] != '_' || s[1] != 'x' || s[6] != '_' {
		return false
	}
	for _, c := range []byte(s[2:6]) {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// needsPreserve reports whether a text node must carry xml:space="preserve".
func needsPreserve(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return isSpace(first) || isSpace(last)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
