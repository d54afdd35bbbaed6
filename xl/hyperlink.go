package xl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Hyperlink limits.
const (
	MaxURLLength   = 2079
	MaxSheetURLs   = 65530
	maxTooltipSize = 255
)

type hyperlinkKind int

const (
	linkExternal hyperlinkKind = iota // http, https, ftp, mailto, file
	linkInternal                      // a location inside this workbook
)

type hyperlink struct {
	row, col int
	kind     hyperlinkKind
	target   string // relationship target of external links
	location string // in-workbook location or url fragment
	tooltip  string
}

// URLOptions customizes WriteURLOpt.
type URLOptions struct {
	// Text is displayed instead of the url.
	Text string
	// Tooltip is shown when hovering the link, at most 255 characters.
	Tooltip string
}

// WriteURL writes a hyperlink and displays the url itself. Supported forms:
// "https://...", "http://...", "ftp://...", "mailto:...", "internal:Sheet2!A1"
// and "external:c:\path\file.xlsx#Sheet!A1". With DefaultStyle the builtin
// hyperlink style (blue, underlined) is used.
//
// A later WriteString to the same cell changes the displayed text and keeps
// the link.
func (s *Sheet) WriteURL(row, col int, url string, style StyleID) error {
	return s.WriteURLOpt(row, col, url, style, URLOptions{})
}

// WriteURLOpt is WriteURL with display text and tooltip.
func (s *Sheet) WriteURLOpt(row, col int, url string, style StyleID, opt URLOptions) error {
	const op = "WriteURL"
	if err := s.checkCell(op, row, col, style); err != nil {
		return err
	}
	link, display, err := parseURL(url)
	if err != nil {
		return validationError(op, CodeParameterValidation, err)
	}
	if utf8.RuneCountInString(link.target)+utf8.RuneCountInString(link.location) > MaxURLLength {
		return validationError(op, CodeMaxURLLengthExceeded, fmt.Errorf("%w: %d characters", ErrURLLength, len(url)))
	}
	if utf8.RuneCountInString(opt.Tooltip) > maxTooltipSize {
		return validationError(op, Code255StringLengthExceeded, ErrStringLength255)
	}
	if len(s.hyperlinks) >= MaxSheetURLs {
		return validationError(op, CodeMaxNumberURLsExceeded, ErrTooManyURLs)
	}
	if opt.Text != "" {
		display = opt.Text
	}
	if err := checkText(display); err != nil {
		return validationError(op, CodeMaxStringLengthExceeded, err)
	}
	if style == DefaultStyle {
		style = s.workbook.styles.hyperlinkStyle()
	}
	if err := s.store(op, row, col, s.stringCell(display, style)); err != nil {
		return err
	}
	link.row, link.col = row, col
	link.tooltip = opt.Tooltip
	for i, h := range s.hyperlinks {
		if h.row == row && h.col == col {
			s.hyperlinks[i] = link
			return nil
		}
	}
	s.hyperlinks = append(s.hyperlinks, link)
	return nil
}

// parseURL splits url into the stored link and the default display text.
func parseURL(url string) (*hyperlink, string, error) {
	if url == "" {
		return nil, "", fmt.Errorf("%w: empty url", ErrInvalidParameter)
	}
	if strings.IndexByte(url, 0) >= 0 {
		return nil, "", ErrNullByte
	}
	switch {
	case strings.HasPrefix(url, "internal:"):
		loc := strings.TrimPrefix(url, "internal:")
		return &hyperlink{kind: linkInternal, location: loc}, loc, nil

	case strings.HasPrefix(url, "external:"):
		path := strings.TrimPrefix(url, "external:")
		display := path
		path, frag, _ := strings.Cut(path, "#")
		display = strings.TrimSuffix(display, "#")
		if isAbsPath(path) {
			path = "file:///" + path
		}
		return &hyperlink{kind: linkExternal, target: escapeURL(path), location: frag}, display, nil

	default:
		scheme, _, ok := strings.Cut(url, ":")
		switch strings.ToLower(scheme) {
		case "http", "https", "ftp", "ftps", "mailto", "file":
		default:
			if !ok {
				return nil, "", fmt.Errorf("%w: url %q has no scheme", ErrInvalidParameter, url)
			}
			return nil, "", fmt.Errorf("%w: unsupported url scheme %q", ErrInvalidParameter, scheme)
		}
		display := strings.TrimPrefix(url, "mailto:")
		target, frag, _ := strings.Cut(url, "#")
		return &hyperlink{kind: linkExternal, target: escapeURL(target), location: frag}, display, nil
	}
}

func isAbsPath(p string) bool {
	if strings.HasPrefix(p, `\\`) || strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) > 2 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}

// escapeURL percent-encodes the characters Excel refuses in a link target,
// leaving existing %XX escapes alone.
func escapeURL(u string) string {
	var sb strings.Builder
	for i := 0; i < len(u); i++ {
		c := u[i]
		switch c {
		case ' ', '"', '<', '>', '[', ']', '^', '`', '{', '}':
			fmt.Fprintf(&sb, "%%%02X", c)
		case '%':
			if i+2 < len(u) && isHex(u[i+1]) && isHex(u[i+2]) {
				sb.WriteByte(c)
			} else {
				sb.WriteString("%25")
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
