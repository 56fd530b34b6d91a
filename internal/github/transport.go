package github

import "net/http"

const acceptHeader = "application/vnd.github+json"

// acceptTransport pins the Accept header on every API call.
type acceptTransport struct {
	base http.RoundTripper
}

func (t acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", acceptHeader)
	return t.base.RoundTrip(req)
}
