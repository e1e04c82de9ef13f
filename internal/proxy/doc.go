// Package proxy controls the reverse proxy that serves the certificates.
//
// The Controller locates the proxy's execution target by image tag, polls its
// state until it is running and runs `nginx -s reload` inside it. Polling uses
// a constant backoff bounded by the caller's context and the optional MaxWait.
//
// Reload failures are returned as RELOAD_FAILURE errors, and the output of
// `nginx -t` is logged alongside. The reconciler logs the error and carries on.
package proxy
