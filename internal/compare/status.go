package compare

// CompareStatus reports whether both responses have the same status code.
func CompareStatus(left, right int) bool {
	return left == right
}
