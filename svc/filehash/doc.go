// Package filehash implements the request pipeline of the file hashing
// service and its HTTP adapter.
//
// Service.Hash admits a request through the worker pool, validates the key,
// answers from the cache when it can and otherwise reads the file, computes
// its SHA-256 digest and size concurrently and caches the result. Errors are
// HTTPError values matched with errors.Is; Router maps them to status codes
// and the "<code> - <message>" plain-text body.
package filehash
