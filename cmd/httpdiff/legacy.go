package main

import (
	"strings"

	"github.com/spf13/pflag"
)

// normalizeLegacyFlags rewrites single-dash long flags such as "-method GET"
// or "-ignore=Date" to their double-dash form. Shorthand flags, flag values
// and anything after "--" are left alone.
func normalizeLegacyFlags(flags *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if isLegacyFlag(flags, arg) {
			arg = "-" + arg
		}
		out = append(out, arg)
		if takesNextArg(flags, arg) && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

// takesNextArg reports whether arg is a flag whose value is the following
// argument, as in "--body -json" or "-kd -json".
func takesNextArg(flags *pflag.FlagSet, arg string) bool {
	switch {
	case len(arg) < 2 || arg[0] != '-':
		return false
	case strings.HasPrefix(arg, "--"):
		name, _, inline := strings.Cut(arg[2:], "=")
		return !inline && needsValue(flags.Lookup(name))
	}
	// Only the last letter of a shorthand cluster can consume the next
	// argument; "-XPOST" carries its value inline.
	for j := 1; j < len(arg); j++ {
		f := flags.ShorthandLookup(arg[j : j+1])
		if f == nil {
			return false
		}
		if needsValue(f) {
			return j == len(arg)-1
		}
	}
	return false
}

func needsValue(f *pflag.Flag) bool {
	return f != nil && f.NoOptDefVal == ""
}

func isLegacyFlag(flags *pflag.FlagSet, arg string) bool {
	if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' {
		return false
	}
	name, _, _ := strings.Cut(arg[1:], "=")
	if len(name) < 2 {
		return false
	}
	return flags.Lookup(name) != nil
}
