// Package config resolves the settings of one httpdiff run.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. the "defaults" section of the configuration file
//  2. the profile selected with --profile
//  3. command line flags
//
// Request headers are merged in their own order: headers from the
// configuration file, then the headers file given with --headers, then each
// --header flag. The last value for a header name wins; names are compared
// case-insensitively.
//
// The configuration file is YAML. It is looked up at the path given with
// --config, then as .httpdiff in the current and home directories, then as
// config.yaml in the XDG config directory (~/.config/httpdiff on Linux).
package config
