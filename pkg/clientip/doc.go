// Package clientip resolves the address of the client behind an HTTP
// request, honouring the usual reverse-proxy headers, and exposes it to the
// logger through the request context.
package clientip
