// Package export writes differing response bodies to temporary files and
// hands them to an external diff tool.
//
// When a tool is configured it is run with the two file paths, inherits the
// standard streams of the process and the files are removed once it exits,
// whatever its outcome. Without a tool the files are left for the user and
// registered with a Janitor that removes them when the process ends.
//
// Export never fails the comparison: problems are logged and returned as
// diagnostics on the result.
package export
