// Package plugins loads user-defined checks and compiles them into
// runnable lint checks.
//
// Definitions come from two sources: YAML files (one definition per
// file, the .stylemark/checks directory by convention) and Go files
// evaluated with the yaegi interpreter, which must declare a
// CheckDefinitions() function returning the same fields as maps. Both
// paths validate through the same schema before compilation.
//
// A compiled check runs its regular expression over the part of the
// document its scope names: prose lines, code block content, heading
// text, or every source line.
package plugins
