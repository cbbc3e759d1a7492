package hydraulics

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// LinearSolver factors and solves the gradient-method's per-trial linear
// system A*dH = F for nodal head corrections. It is the single "opaque
// algorithm" seam spec.md §1 permits treating as a library call rather than
// a from-scratch reimplementation — grounded on gonum's presence across the
// retrieved pack's numeric repositories.
type LinearSolver interface {
	// Solve returns dH given the sparse (here dense, size bounded by
	// junction count) symmetric positive semi-definite matrix A and
	// right-hand side b.
	Solve(a *mat.SymDense, b []float64) ([]float64, error)
}

// CholeskySolver is the default LinearSolver, backed by gonum's Cholesky
// factorization — appropriate because the gradient method's nodal matrix is
// symmetric and, for a connected network with at least one fixed-grade
// node, positive definite.
type CholeskySolver struct{}

var errNotPosDef = errors.New("hydraulics: nodal matrix is not positive definite (network may be disconnected from every fixed-grade node)")

func (CholeskySolver) Solve(a *mat.SymDense, b []float64) ([]float64, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return luFallback(a, b)
	}
	n := a.Symmetric()
	x := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(x, mat.NewVecDense(n, b)); err != nil {
		return nil, err
	}
	return x.RawVector().Data, nil
}

// luFallback handles the rare case where roundoff or a topology with zero
// net demand leaves A numerically indefinite; LU factorization tolerates
// that at a performance cost, grounded on gonum's mat.LU as the standard
// fallback for ill-conditioned symmetric systems.
func luFallback(a *mat.SymDense, b []float64) ([]float64, error) {
	n := a.Symmetric()
	dense := mat.NewDense(n, n, nil)
	dense.CloneFromSym(a)
	var lu mat.LU
	lu.Factorize(dense)
	x := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(x, false, mat.NewVecDense(n, b)); err != nil {
		return nil, errNotPosDef
	}
	return x.RawVector().Data, nil
}
