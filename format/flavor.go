package format

import (
	"regexp"
	"strings"

	"github.com/tsawler/stylemark/core"
)

// Flavor represents a Markdown dialect. The flavor decides which anchor
// algorithm matching renderers would apply to headings.
type Flavor int

const (
	// FlavorGFM is GitHub Flavored Markdown, the default.
	FlavorGFM Flavor = iota
	// FlavorKramdown is the kramdown dialect used by Jekyll sites.
	FlavorKramdown
	// FlavorCommonMark is plain CommonMark without GFM extensions.
	FlavorCommonMark
)

// String returns the string representation of the flavor.
func (f Flavor) String() string {
	switch f {
	case FlavorGFM:
		return "GFM"
	case FlavorKramdown:
		return "kramdown"
	case FlavorCommonMark:
		return "CommonMark"
	default:
		return "Unknown"
	}
}

// SlugStyle returns the anchor algorithm for the flavor.
func (f Flavor) SlugStyle() core.SlugStyle {
	if f == FlavorKramdown {
		return core.SlugKramdown
	}
	return core.SlugGitHub
}

// Kramdown attribute lists: {: .class} or {:#id} after a block.
var kramdownALRe = regexp.MustCompile(`\{:[ ]*[.#][^}]*\}`)

// DetectFlavor sniffs document content for dialect markers. Kramdown
// attribute lists and {:toc} macros mark kramdown; otherwise the content
// is indistinguishable from GFM, which is assumed.
func DetectFlavor(src []byte) Flavor {
	s := string(src)
	if kramdownALRe.MatchString(s) || strings.Contains(s, "{:toc}") {
		return FlavorKramdown
	}
	return FlavorGFM
}
