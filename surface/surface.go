// Package surface describes parametric surfaces given by an embedding of
// symbolic coordinate expressions.
package surface

import (
	"fmt"

	"github.com/zephyrtronium/symbolic"
)

// Surface is a surface embedded by coordinate expressions. The variables of
// the embedding are partitioned into surface variables, which move along the
// surface, and parametric variables, which select a member of a family of
// surfaces, such as the radii of a torus.
type Surface struct {
	// Embedding holds the coordinate expressions.
	Embedding []symbolic.Expr
	// SurfaceVars are the variables that move along the surface.
	SurfaceVars symbolic.VarSet
	// ParametricVars are all other free variables of the embedding.
	ParametricVars symbolic.VarSet
}

// FromEmbedding creates a surface from its surface variables and embedding.
// Surface variables that do not appear in the embedding are kept.
func FromEmbedding(surfaceVars symbolic.VarSet, embedding []symbolic.Expr) Surface {
	all := make(symbolic.VarSet)
	for _, e := range embedding {
		all = all.Union(symbolic.FreeVars(e))
	}
	return Surface{
		Embedding:      append([]symbolic.Expr(nil), embedding...),
		SurfaceVars:    symbolic.VarSet{}.Union(surfaceVars),
		ParametricVars: all.Difference(surfaceVars),
	}
}

// Tangent differentiates each coordinate of the embedding with respect to a
// surface variable. The result is nil with an error if v is not a surface
// variable or if any coordinate cannot be differentiated.
func (s Surface) Tangent(eng *symbolic.Engine, v symbolic.Var) ([]symbolic.Expr, error) {
	if !s.SurfaceVars.Has(v) {
		return nil, fmt.Errorf("%v is not a surface variable of %v", v, s.SurfaceVars)
	}
	r := make([]symbolic.Expr, len(s.Embedding))
	for i, e := range s.Embedding {
		d, err := eng.Derive(e, v)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		r[i] = d
	}
	return r, nil
}
