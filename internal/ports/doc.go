// Package ports holds the interfaces that connect the task domain to the
// outside. Handlers call TaskService; the domain proxies and the
// application layer call the store, executor, queue and notification ports,
// which the adapters implement.
package ports
