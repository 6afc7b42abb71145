// Package apiconnect wires the api messages to Connect handlers and clients.
//
// Every service lives under /tripsplit.v1.<Service>/ and every method is a
// unary procedure. Handlers and clients built here use Codec, so the wire
// format is plain JSON.
package apiconnect
