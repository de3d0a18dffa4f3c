// Package main provides the entry point for the httpdiff CLI.
//
// httpdiff sends the same HTTP request to two URLs and reports the
// differences between the responses: status code, headers and body.
//
// Usage:
//
//	httpdiff -X GET https://old.example/api https://new.example/api
//	httpdiff -X POST -d '{"a":1}' --diffapp meld <left-url> <right-url>
//
// See --help for all available options.
package main

import "os"

// main is the entry point for httpdiff.
func main() {
	os.Exit(Execute())
}
