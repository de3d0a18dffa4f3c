// Package compare implements the three comparison stages of httpdiff.
//
// Each stage is a pure function over two response snapshots and returns its
// own verdict. Aggregate combines the verdicts into the overall result; no
// stage reads or writes state shared with another stage.
//
// The stages run in a fixed order: status code, headers, body. The body
// stage uses a length fast path before comparing bytes, so a body pair of
// different length is always reported as such and never as a content
// difference.
package compare
