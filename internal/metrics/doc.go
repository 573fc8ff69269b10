// Package metrics provides observability hooks for rendering, platform API calls
// and mission lifecycle events.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never need nil checks:
//
//	type Client struct {
//		recorder metrics.Recorder
//	}
//
//	func NewClient() *Client {
//		return &Client{recorder: metrics.NoopRecorder{}}
//	}
//
// When the local server runs with metrics enabled, a PrometheusRecorder is
// constructed against a dedicated registry and exposed through HTTPHandler.
package metrics
