package opt_test

import (
	"fmt"

	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/matrix"
	"github.com/katalvlaran/symopt/opt"
	"github.com/katalvlaran/symopt/sym"
)

// ExampleNumericFactor_Linearize runs Gauss-Newton on r(x) = x² - 4 from x = 3.
func ExampleNumericFactor_Linearize() {
	sp := opt.NewBaseSubProblem("root")
	x, _ := sp.AddInput("x", geo.NewScalar(sym.N(0)), true)
	xs := x.ToStorage()[0]

	blocks := opt.NewValues[opt.ResidualBlock]()
	_ = blocks.Set("root.square", opt.ResidualBlock{Residual: []sym.Expr{sym.SubOf(sym.Square(xs), sym.N(4))}})

	problem, err := opt.NewOptimizationProblem([]opt.SubProblem{sp}, blocks)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	factors, err := problem.MakeNumericFactors("gn", nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	nf := factors[0]
	fmt.Println(nf.Name(), nf.OptimizedKeys())

	values := map[string][]float64{"root.x": {3}}
	for i := 0; i < 6; i++ {
		lin, _ := nf.Linearize(values)
		h, _ := lin.Hessian()
		rhs, _ := lin.Rhs()
		hinv, err := matrix.Inverse(h)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		step, _ := matrix.MatVec(hinv, rhs)
		values["root.x"][0] -= step[0]
	}
	fmt.Printf("x = %.6f\n", values["root.x"][0])

	// Output:
	// gn [root.x]
	// x = 2.000000
}
