// Package progress defines primitives for reporting and aggregating the
// progress of a Cascade run.  It abstracts away the delivery mechanism so
// that callers can consume counter updates in a uniform way, whether they
// observe them in-process or forward them to an external surface.
package progress
