// Package fulltext builds CONTAINS and FREETEXT predicates on top of a query
// IR that has no full-text vocabulary.
//
// PROTOCOL:
//
// The builder never adds a node kind. It emits an ordinary substring test
// (queryir.Contains) whose operand is a tagged payload:
//
//	"(" + sentinel + raw predicate + ")"
//
// The SQL compiler renders that as a LIKE clause like any other substring
// test. The interceptor (package intercept) later scans the generated
// command, recognizes the sentinel, and swaps the LIKE clause for the native
// clause of the target database. Only the final text stage knows about the
// protocol.
//
// SENTINELS:
//
// ContainsTag and FreeTextTag are fixed GUID-like tokens. Neither is a
// substring of the other, and AnyTag matches either. They are part of the
// wire format and must not change.
//
// TRUST BOUNDARY:
//
// The raw predicate is passed through byte for byte. It is not checked for
// sentinel text, SQL metacharacters or native search syntax; callers must
// supply trusted or already sanitized search text.
package fulltext
