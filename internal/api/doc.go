// Package api provides the HTTP adapter for the survey generation service.
//
// The Client sends JSON to a fixed base URL with a long timeout and
// normalizes every outcome: on success only the response body is returned;
// on failure a *RequestError carries the best human-readable message
// available, in order of preference:
//
//  1. the "message" field of the server's JSON body
//  2. the underlying transport error (or "timeout of 60000ms exceeded")
//  3. the generic FallbackMessage
//
// The client never retries and never caches.
//
// # Usage Example
//
//	client := api.NewClient("http://localhost:5001/api")
//
//	env, err := client.GenerateSurvey(ctx, "a customer satisfaction survey")
//	if err != nil {
//	    fmt.Println(err) // human-readable message
//	    return
//	}
//	if !env.OK() {
//	    fmt.Println(env.Message)
//	}
//
// # Service Contract
//
//	POST {base}/generate  {"requirement": "..."}
//	  -> {"status": "success", "data": {...}}
//	  -> {"status": "error", "message": "..."}
//	GET  {base}/health
//
// Any status other than "success" is a logical failure even on HTTP 200.
//
// # Error Handling
//
// Use IsTransportError, IsTimeout, IsServerError and IsParseError to
// inspect failures; Troubleshooting returns hints suitable for display.
package api
