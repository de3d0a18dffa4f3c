// Package model defines the data structures shared by every stage of an
// httpdiff run.
//
// This package contains the following main types:
//   - ComparisonRequest: the fully resolved request applied to both endpoints
//   - ResponseSnapshot: the immutable outcome of one successful fetch
//   - FetchFailure: the outcome of one failed fetch
//   - Outcome: exactly one of ResponseSnapshot or FetchFailure for a side
//   - ComparisonResult: the verdict and structured differences of a run
//
// Models live in their own package so that fetch, compare, export and report
// can share them without import cycles. All of them are serializable to JSON
// for the --json report.
package model
