// Package retry runs a single remote call with bounded, jittered
// exponential backoff. Only failures the classifier marks as transient are
// retried; everything else is returned after the first attempt.
package retry
