// Package audio mirrors the volume and mute state of the audio server's default
// sink so the status loop can read it without talking to the server.
//
// The server pushes change notifications on its own goroutine. Those are only
// forwarded onto a channel; a single consumer goroutine re-queries the server
// and replaces the mirrored [State]. Produce reads a copy under a read lock.
package audio
