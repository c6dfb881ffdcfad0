// Package recon reconciles the declared type of a declaration with its documented type.
//
// Both sides arrive as raw union strings ("int|null", "\Foo\Bar|self"). They are
// normalised into ordered token sets and compared in two passes:
//
//	Pass A: every declared token must be covered by the documented set  -> Missing
//	Pass B: every documented token must be justified by the declared side -> Wrong
//
// Coverage is deliberately permissive. Refinements (int[] for array, class-string<T>
// for string, true/false for bool) and registry-confirmed subtypes count as covered,
// and partially-qualified class names are matched by substring. A noisy checker gets
// ignored, so a missed mismatch is preferred over a false report.
//
// The package performs no I/O. Diagnostics accumulate in a Diagnostics value that is
// never modified in place; callers fold declarations through Engine.Reconcile.
package recon
