// Package metrics provides internal metrics collection for adapter calls.
// This package is internal and should not be imported by external projects.
package metrics
