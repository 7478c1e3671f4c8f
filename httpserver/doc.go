/*
Package httpserver runs the provisioning HTTP API.

It wires the provisioning handler into a chi router with request
logging, exposes liveness, readiness and drain endpoints for load
balancers, optionally mounts pprof, and runs a companion metrics
server on a separate listener. Shutdown is graceful with a bounded
timeout for in-flight requests.
*/
package httpserver
