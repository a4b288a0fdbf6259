// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the candy generation pipeline, translating HTTP concerns to generation
// calls and generation failures back to status codes.
package api
