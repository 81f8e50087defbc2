// Package rules extracts the advisory content of a style guide into a
// structured inventory.
//
// A style guide is a list of conventions: each bullet or paragraph
// states a rule, usually followed by fenced code examples showing the
// discouraged and preferred forms. [Extractor] walks an analyzed
// document and turns that content into [Rule] values with their
// [Example] blocks attached.
//
// # Extraction
//
//	extractor := rules.NewExtractor()
//	inventory, err := extractor.Extract(doc)
//
// Extraction follows the section tree. List items become rules
// directly; a paragraph becomes a rule once a code block attaches to
// it. A code block with no introducing text still lands in the
// inventory as an example-only rule, so no sample is lost.
//
// # Example splitting
//
// A single fence often holds both forms, separated by marker comments:
//
//	# bad
//	name = first + " " + last
//
//	# good
//	name = "#{first} #{last}"
//
// The fence is split at each marker into labeled [Example] values. The
// marker vocabulary and the comment leaders it is recognized behind are
// configured through [ExtractorConfig].
//
// # Identity
//
// Rules keep their document identity: an explicit <a name="..."></a>
// anchor inside the advice becomes the rule ID, and rules without one
// get a positional ID derived from the enclosing section anchor.
//
// # Export
//
// [Inventory] serializes to JSON and YAML:
//
//	err := inventory.JSON(os.Stdout)
//
// and offers [Inventory.ByLabel], [Inventory.Untagged] and
// [Inventory.Sections] for filtering.
package rules
