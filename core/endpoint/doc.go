// Package endpoint is the device-file layer of the notification channel. It
// maps open handles to listener slots in core/eventqueue, generates the
// opaque listener identities the queue requires, and implements the
// poll-style blocking (Wait, Next) that the queue deliberately leaves to
// this layer.
//
// A websocket feed is included for serving the same per-listener streams to
// remote clients; every websocket connection gets its own handle and the
// same delivery guarantees as a local reader.
package endpoint
