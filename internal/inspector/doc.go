// Package inspector serves a live view of the frame scheduler over HTTP.
//
// Routes:
//
//	GET /healthz   liveness check
//	GET /frames    recent tick statistics as JSON, oldest first (?limit=n)
//	GET /metrics   Prometheus exposition, when a gatherer is configured
//	GET /ws        websocket stream of tick statistics
//
// An Inspector is a fastdom.Observer; attach it to the scheduler it reports
// on with fastdom.WithObserver or Scheduler.AddObserver.
package inspector
