package jfits

import(
	"fmt"
	"math"
)

// A Cube is a stack of same-sized float32 images, one per integration.
// 2D inputs are carried as a cube with NInts==1, so downstream code only
// ever deals with one shape. Values are stored x-fastest, matching the
// FITS data ordering.
type Cube struct {
	NInts int
	NY    int
	NX    int
	Vals  []float32
}

func NewCube(nints, ny, nx int) Cube {
	return Cube{
		NInts: nints,
		NY:    ny,
		NX:    nx,
		Vals:  make([]float32, nints*ny*nx),
	}
}

func (c *Cube)At(i, y, x int) float32     { return c.Vals[(i*c.NY+y)*c.NX+x] }
func (c *Cube)Set(i, y, x int, v float32) { c.Vals[(i*c.NY+y)*c.NX+x] = v }
func (c *Cube)NPix() int                  { return c.NY * c.NX }

// Plane returns the values for one integration, as a view into the cube.
func (c *Cube)Plane(i int) []float32 {
	n := c.NPix()
	return c.Vals[i*n : (i+1)*n]
}

func (c *Cube)String() string {
	return fmt.Sprintf("cube[%dx%dx%d]", c.NInts, c.NY, c.NX)
}

// MeanImage collapses the integration axis, ignoring NaNs. Pixels that
// are NaN in every integration stay NaN.
func (c *Cube)MeanImage() []float64 {
	n := c.NPix()
	sum := make([]float64, n)
	cnt := make([]int, n)
	for i := 0; i < c.NInts; i++ {
		pl := c.Plane(i)
		for j := 0; j < n; j++ {
			v := float64(pl[j])
			if !math.IsNaN(v) {
				sum[j] += v
				cnt[j]++
			}
		}
	}
	for j := 0; j < n; j++ {
		if cnt[j] == 0 {
			sum[j] = math.NaN()
		} else {
			sum[j] /= float64(cnt[j])
		}
	}
	return sum
}

// A DQCube is the data-quality companion to a Cube: one bitmask per pixel
// per integration, using the usual flag bits (1 = do-not-use, 16 = outlier).
type DQCube struct {
	NInts int
	NY    int
	NX    int
	Vals  []int32
}

const(
	DQDoNotUse = int32(1)
	DQOutlier  = int32(16)
)

func NewDQCube(nints, ny, nx int) DQCube {
	return DQCube{
		NInts: nints,
		NY:    ny,
		NX:    nx,
		Vals:  make([]int32, nints*ny*nx),
	}
}

func (c *DQCube)At(i, y, x int) int32     { return c.Vals[(i*c.NY+y)*c.NX+x] }
func (c *DQCube)Set(i, y, x int, v int32) { c.Vals[(i*c.NY+y)*c.NX+x] = v }
func (c *DQCube)NPix() int                { return c.NY * c.NX }

func (c *DQCube)Plane(i int) []int32 {
	n := c.NPix()
	return c.Vals[i*n : (i+1)*n]
}
