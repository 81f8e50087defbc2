package model

import "strings"

// LinkKind classifies a link destination
type LinkKind int

const (
	KindInternal LinkKind = iota // #anchor within the document
	KindRelative                 // file relative to the document
	KindExternal                 // http or https URL
	KindMailto                   // mailto: address
	KindOther                    // any other scheme (ftp:, irc:, ...)
)

// String returns a human-readable name for the link kind.
func (k LinkKind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindRelative:
		return "relative"
	case KindExternal:
		return "external"
	case KindMailto:
		return "mailto"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Link represents one resolved link occurrence in the document
type Link struct {
	Text  string
	Dest  string
	Title string
	Kind  LinkKind
	Image bool
	Line  int // Source line (1-indexed)
	Col   int // Byte column of the link's first character (1-indexed)
}

// Fragment returns the anchor part of an internal link without the #.
func (l Link) Fragment() string {
	return strings.TrimPrefix(l.Dest, "#")
}

// RefLink represents a reference-style link occurrence [text][label]
type RefLink struct {
	Text  string
	Label string
	Line  int
	Col   int
}

// RefDef represents a link reference definition [label]: dest
type RefDef struct {
	Label string
	Dest  string
	Title string
	Line  int
}

// ClassifyDest determines the kind of a link destination.
func ClassifyDest(dest string) LinkKind {
	switch {
	case strings.HasPrefix(dest, "#"):
		return KindInternal
	case strings.HasPrefix(dest, "http://"), strings.HasPrefix(dest, "https://"):
		return KindExternal
	case strings.HasPrefix(dest, "mailto:"):
		return KindMailto
	case hasScheme(dest):
		return KindOther
	default:
		return KindRelative
	}
}

// hasScheme reports whether dest starts with a URI scheme. A Windows
// drive letter ("C:") does not count.
func hasScheme(dest string) bool {
	colon := strings.IndexByte(dest, ':')
	if colon < 2 {
		return false
	}
	for _, r := range dest[:colon] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9', r == '+', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}
