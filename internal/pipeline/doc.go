// Package pipeline runs the stages of one comparison in order.
//
// A comparison is processed by a fixed sequence of steps: fetch both
// responses, compare status codes, compare headers, compare bodies, export
// differing bodies and aggregate the verdict. Each step reads and writes the
// shared Run and is logged by the Pipeline. Only the fetch step does work
// concurrently; it issues both requests at the same time.
//
// When a fetch fails the comparison steps are skipped and the failure is
// carried in the result, so the aggregate verdict is "different".
package pipeline
