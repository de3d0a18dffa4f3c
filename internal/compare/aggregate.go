package compare

import (
	"github.com/nao1215/httpdiff/internal/model"
)

// Aggregate sets and returns the overall verdict of result. The responses
// are the same only when both fetches succeeded and status, headers and
// body all match.
func Aggregate(result *model.ComparisonResult) bool {
	result.OverallSame = !result.Failed() &&
		result.StatusMatch &&
		result.HeadersMatch &&
		result.BodyMatch
	return result.OverallSame
}
