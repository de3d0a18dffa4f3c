package fetch

import (
	"context"
	"net/http"
	"strings"

	"github.com/nao1215/httpdiff/internal/model"
)

// BuildRequest constructs the HTTP request sent to target.
//
// The body is attached only when the method carries one. Headers are applied
// in this order: the explicit Headers map, then UserAgent when Headers has no
// User-Agent entry, then HostOverride when Headers has no Host entry.
func BuildRequest(ctx context.Context, req *model.ComparisonRequest, target string) (*http.Request, error) {
	var body *strings.Reader
	if req.CarriesBody() {
		body = strings.NewReader(req.Body)
	}

	var (
		httpReq *http.Request
		err     error
	)
	if body != nil {
		httpReq, err = http.NewRequestWithContext(ctx, req.Method, target, body)
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, req.Method, target, http.NoBody)
	}
	if err != nil {
		return nil, err
	}

	hasHost := false
	hasAgent := false
	for name, value := range req.Headers {
		switch http.CanonicalHeaderKey(name) {
		case "Host":
			hasHost = true
			httpReq.Host = value
			continue
		case "User-Agent":
			hasAgent = true
		}
		httpReq.Header.Set(name, value)
	}

	if !hasAgent && req.UserAgent != "" {
		httpReq.Header.Set("User-Agent", req.UserAgent)
	}
	if !hasHost && req.HostOverride != "" {
		httpReq.Host = req.HostOverride
	}

	return httpReq, nil
}
