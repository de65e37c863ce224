// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/task); the generic
// decorator mechanism lives in domain/proxy. This root package holds sentinel
// errors and the typed errors raised by the task state machine.
package domain
