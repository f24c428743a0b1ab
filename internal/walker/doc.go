// Package walker enumerates files and directories under a root path.
//
// Three entry points share one filter: List scans a single directory,
// ListRecursive walks an entire subtree depth-first, and ListNoPath walks
// the subtree returning root-relative paths. Filter flags select what
// appears in the results; they never limit how deep the walk goes, so the
// contents of an excluded directory still show up in recursive output.
//
// Callers holding a loosely-typed option bag (CLI flags, config files)
// normalize it through ParseOptions, which maps every accepted alias key
// onto the canonical Options fields.
package walker
