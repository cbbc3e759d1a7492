// Package hydronet is an extended-period hydraulic and water-quality
// simulation engine for pipe networks.
//
// A Project (package project) owns a network topology (package network),
// the gradient-method hydraulic solver and its Newton iteration state
// (package hydraulics), the Lagrangian water-quality solver (package
// quality), the rule-based control evaluator (package rules), the unit
// conversion tables (package units), the binary scratch and output file
// formats (packages hydfile and outfile), and a text summary reporter
// (package report). Errors surface through a small coded-error vocabulary
// (package errs) distinguishing non-fatal warnings from fatal failures.
package hydronet
