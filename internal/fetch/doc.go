// Package fetch issues the left and right requests of a comparison run.
//
// Each request gets its own freshly built *http.Client so that transport
// settings such as InsecureSkipVerify never leak into process-wide state or
// into another run. The Dispatcher starts both fetches together and waits for
// both; a failure on one side is recorded as a model.FetchFailure and never
// cancels the other side.
package fetch
