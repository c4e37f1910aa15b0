// Package solver provides the linear and integer solving capability used by
// the column generator.
//
// A Model is built incrementally: rows are added with AddConstraint and
// columns with AddVar, which may place the new variable into rows that
// already exist. SolveLP solves the continuous relaxation with gonum's
// simplex and recovers dual prices by solving the explicit dual program.
// SolveMIP runs a depth-first branch-and-bound over LP relaxations.
//
// Dual prices follow the convention dual = ∂objective/∂rhs, so a binding
// ">=" row of a minimization has a non-negative price.
package solver
