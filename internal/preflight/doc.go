// Package preflight provides readiness checks for the stretch engine and
// the output directory.
//
// These checks run in two contexts:
//   - The stretch command calls Engine.Ensure before parsing targets. The
//     first failure aborts the invocation with install guidance.
//   - The CLI "deps" command uses RunAll to display every check.
package preflight
