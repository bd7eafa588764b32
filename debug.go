package amqp

// Debug logging is controlled at build time, not at runtime: build with
// -tags debug and set the DEBUG_LEVEL environment variable (1-3, higher
// is more verbose) to have internal/debug.Log print frame and state
// transitions to stderr. A normal build compiles every debug.Log call
// down to a no-op (internal/debug/debug.go), so there is no logger to
// register here.
