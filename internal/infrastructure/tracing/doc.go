/*
Package tracing provides lightweight request tracing.

# Overview

Every HTTP request and websocket command gets a span. Trace IDs arrive in
the X-Trace-ID header (or are generated) and are echoed back so the webview
can correlate its own logs. Finished spans are logged through zap by a
background collector; nothing is exported.

# Usage

	tracer := tracing.New("sidenote", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "invoke read_file")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
