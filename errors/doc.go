// Package errors provides the structured error type used across diarsplit.
//
// Every failure that leaves a package is an *AppError carrying a
// machine-readable code, an HTTP status and optional details. Table
// validation failures, unreadable media, segment extraction failures and
// archive failures each have their own code so callers can tell them apart
// with HasCode.
package errors
