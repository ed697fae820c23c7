// Package requestid tags every HTTP request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID header from the client or
// generates a UUIDv4, stores it on the request context and echoes it back in
// the response. LoggerExtractor feeds the id to the logger package so every
// record logged with the request context carries "request_id".
package requestid
