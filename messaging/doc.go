// Package messaging provides the request/reply primitives shared by the
// registry and bucket actors.
//
// Every operation carries a single-use reply destination. Whichever actor
// terminates the request writes exactly one Reply to it:
//
//	reply := messaging.NewReplyTo()
//	// ... enqueue a request carrying reply ...
//	r := <-reply
//	if err := r.Err(); err != nil {
//	    // errors.Is(err, messaging.ErrNotFound)
//	}
//
// # Error Kinds
//
// Failures never unwind an actor. They travel inside the Reply as a Kind:
//
//   - KindNone: success
//   - KindNotFound: key or namespace absent
//   - KindConflict: namespace already exists
//   - KindFailure: malformed request or unavailable operation
//
// # Abandoned Replies
//
// Reply channels are buffered with capacity one and written through Deliver,
// which never blocks. A caller that stops listening leaves the reply in the
// buffer to be collected with the channel; the serving actor moves on.
package messaging
