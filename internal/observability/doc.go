// Package observability builds the structured logger and the Prometheus
// metrics recorded during a report run.
package observability
