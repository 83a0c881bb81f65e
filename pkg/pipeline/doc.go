// Package pipeline implements sequential execution of deployment steps.
//
// A pipeline is an ordered list of steps, each an external command
// invocation. Execution is strictly sequential: any failure of a regular
// step aborts the run immediately and later steps are never attempted.
// Steps marked best-effort have their failures recorded and suppressed so
// the run can still finish successfully.
package pipeline
