// Package fastdom provides the frame-aligned scheduler that batches
// measurement ("read") and mutation ("write") work.
//
// Work is queued as deferred tasks on one of two ordered stages. A call to
// Flush runs one tick: every queued read first, then every queued write.
// Reads queued while the read stage is running join the same stage; writes
// queued by reads run in the same tick's write stage. Anything queued while
// the write stage runs waits for the next tick.
//
//	s := fastdom.New()
//	s.Read(func() error {
//	    height = measure()
//	    return nil
//	})
//	s.Write(func() error {
//	    apply(height)
//	    return nil
//	})
//	err := s.Flush() // read, then write
//
// # Errors
//
// A failing task never aborts the tick. Errors and recovered panics are
// collected and returned from Flush joined together, so the host decides how
// to surface them.
//
// # Thread Safety
//
// Queues may be armed from any goroutine. Tasks always run on the goroutine
// calling Flush, one at a time, so state touched only by tasks needs no
// locking.
package fastdom
