// Package queue implements ports.TaskQueue. Memory is an in-process buffered
// channel for single-instance deployments; Redis is a list shared by every
// API and worker instance.
package queue
