// Package middleware holds the inbound HTTP pipeline for the task API. The
// server installs it in this order:
//
//	Recovery, RequestID, CorrelationID, Tenant, OpenTelemetry, Logging, Timeout
//
// Each middleware is a func(http.Handler) http.Handler for chi's Router.Use.
package middleware
