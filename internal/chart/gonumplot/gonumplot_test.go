package gonumplot

import (
	"testing"

	"github.com/KaramelBytes/edakit/internal/chart/chartest"
)

func TestRendererConformance(t *testing.T) {
	chartest.Conformance(t, New())
}

func TestGridPutsFirstRowOnTop(t *testing.T) {
	g := grid{{1, 2}, {3, 4}}
	c, r := g.Dims()
	if c != 2 || r != 2 {
		t.Fatalf("dims = %dx%d", c, r)
	}
	if g.Z(0, 1) != 1 || g.Z(1, 0) != 4 {
		t.Fatalf("Z(0,1)=%v Z(1,0)=%v, want 1 and 4", g.Z(0, 1), g.Z(1, 0))
	}
}
