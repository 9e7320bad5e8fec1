// Package logward provides an ergonomic structured-logging façade: brace-style
// message templates, persistent and scoped context binding, a processor chain
// for record transformation, and a sink registry for output management.
//
// The façade produces Records, runs them through an ordered chain of
// Processors on the caller's goroutine, and hands survivors to registered
// sinks. Encoding and output are delegated to sink implementations (see
// pkg/sinks); the chain itself performs no I/O.
//
//	log, shutdown, _ := logconfig.Setup("billing")
//	defer shutdown(context.Background())
//
//	log.Info(ctx, "user {user_id} logged in",
//		logward.String("user_id", "u-42"),
//		logward.Int("attempts", 3),
//	)
package logward
