// Package jdmerr defines the error taxonomy shared by every component of the
// engine: not found, invalid graph, parse, type mismatch, division by zero,
// unknown node kind, timeout, and node execution failure. Every error built
// by this package carries one of these kinds so callers can branch on
// KindOf(err) instead of string-matching messages.
package jdmerr

import (
	"errors"

	"github.com/samber/oops"
)

// Kind identifies one of the taxonomy's error categories. Kinds double as
// oops error codes.
type Kind string

const (
	NotFoundKind            Kind = "NOT_FOUND"
	InvalidGraphKind        Kind = "INVALID_GRAPH"
	ParseErrorKind          Kind = "PARSE_ERROR"
	TypeMismatchKind        Kind = "TYPE_MISMATCH"
	DivisionByZeroKind      Kind = "DIVISION_BY_ZERO"
	UnknownNodeKindKind     Kind = "UNKNOWN_NODE_KIND"
	TimeoutKind             Kind = "TIMEOUT"
	NodeExecutionFailureKind Kind = "NODE_EXECUTION_FAILURE"
)

// NotFound reports that a loader could not resolve a decision key.
func NotFound(key string) error {
	return oops.Code(string(NotFoundKind)).With("key", key).Errorf("no document found for key %q", key)
}

// InvalidGraph reports a structural defect in a JDM document: a cycle,
// dangling edge, missing input/output node, or duplicate node id.
func InvalidGraph(reason string, kv ...any) error {
	return oops.Code(string(InvalidGraphKind)).With(kv...).Errorf("invalid graph: %s", reason)
}

// ParseError reports a lexing/parsing failure in an expression or predicate
// string, carrying the byte offset it failed at.
func ParseError(position int, message string) error {
	return oops.Code(string(ParseErrorKind)).With("position", position).Errorf("parse error at %d: %s", position, message)
}

// TypeMismatch reports a runtime operand type error in the expression
// evaluator.
func TypeMismatch(reason string, kv ...any) error {
	return oops.Code(string(TypeMismatchKind)).With(kv...).Errorf("type mismatch: %s", reason)
}

// DivisionByZero reports arithmetic division (or modulo) by zero.
func DivisionByZero() error {
	return oops.Code(string(DivisionByZeroKind)).Errorf("division by zero")
}

// UnknownNodeKind reports a node whose "type" field is not recognized.
func UnknownNodeKind(kind string) error {
	return oops.Code(string(UnknownNodeKindKind)).With("kind", kind).Errorf("unknown node kind %q", kind)
}

// Timeout reports that max_execution_time_ms was exceeded.
func Timeout(elapsedMS int64, limitMS int64) error {
	return oops.Code(string(TimeoutKind)).
		With("elapsed_ms", elapsedMS).
		With("limit_ms", limitMS).
		Errorf("execution exceeded %dms timeout", limitMS)
}

// NodeExecutionFailure wraps any of the above with the failing node's id and
// kind, the catch-all the graph executor returns for a failed node.
func NodeExecutionFailure(nodeID, nodeKind string, cause error) error {
	return oops.Code(string(NodeExecutionFailureKind)).
		With("node_id", nodeID).
		With("node_kind", nodeKind).
		Wrap(cause)
}

// KindOf extracts the taxonomy Kind from err, walking wrapped oops errors.
// It returns ok=false for errors that did not originate from this package.
func KindOf(err error) (kind Kind, ok bool) {
	var oopsErr oops.OopsError
	if !errors.As(err, &oopsErr) {
		return "", false
	}
	code := oopsErr.Code()
	if code == "" {
		return "", false
	}
	return Kind(code), true
}

// Is reports whether the single Kind that KindOf extracts from err equals
// kind. It does not search every error in the chain for kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
