// Package domain models coastal hazard reports and flood-detection verdicts.
//
// # Data Flow
//
// A capture produces three values that always travel together: the
// coordinates of the position fix, the annotated image, and the
// classification verdict. A Post built from a capture must never mix
// coordinates from one capture with a verdict from another; the capture
// package enforces this by producing all three in a single Result.
//
// # Encoded Images
//
// Images move through the system as base64 data URLs
// ("data:image/jpeg;base64,..."), self-describing strings suitable for
// direct assignment to an image-display surface. Two encodings exist per
// capture: the untouched source and the annotated copy carrying the
// location/timestamp caption band.
//
// # Verdicts
//
// ClassificationVerdict mirrors the flood-detection service's JSON response.
// Confidence and every prediction probability are in [0, 1]. Mock is true
// only when the verdict was substituted locally because the detection
// service could not be reached; downstream consumers use it to flag
// unverified results.
//
// # Severity
//
// Post severity is a three-level scale (low, medium, high) derived from the
// verdict's risk level. A missing or unknown risk level defaults to medium.
package domain
