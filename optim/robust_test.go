package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/curvefit/optim"
)

// TestHuber_Regions checks the quadratic and linear branches.
func TestHuber_Regions(t *testing.T) {
	k := optim.NewHuber(2)
	assert.Equal(t, "huber", k.Name())
	assert.Equal(t, 2.0, k.Delta())

	assert.Equal(t, [3]float64{3, 1, 0}, k.Robustify(3), "e2 <= δ² stays quadratic")

	rho := k.Robustify(16)
	assert.InDelta(t, 2*4*2-4, rho[0], 1e-12)
	assert.InDelta(t, 0.5, rho[1], 1e-12)
	assert.InDelta(t, -0.5*0.5/16, rho[2], 1e-12)
}

// TestHuber_Continuous at the kink.
func TestHuber_Continuous(t *testing.T) {
	k := optim.NewHuber(1.5)
	below := k.Robustify(1.5*1.5 - 1e-9)
	above := k.Robustify(1.5*1.5 + 1e-9)
	assert.InDelta(t, below[0], above[0], 1e-6)
	assert.InDelta(t, below[1], above[1], 1e-6)
}

// TestCauchy_Values compares with the closed form.
func TestCauchy_Values(t *testing.T) {
	k := optim.NewCauchy(1)
	assert.Equal(t, "cauchy", k.Name())

	rho := k.Robustify(3)
	assert.InDelta(t, math.Log(4), rho[0], 1e-12)
	assert.InDelta(t, 0.25, rho[1], 1e-12)
	assert.InDelta(t, -1.0/16, rho[2], 1e-12)

	assert.Equal(t, [3]float64{0, 1, -1}, k.Robustify(0))
}

func TestKernels_Panics(t *testing.T) {
	assert.Panics(t, func() { optim.NewHuber(0) })
	assert.Panics(t, func() { optim.NewCauchy(-1) })
}

// TestKernelByName resolves names case-insensitively.
func TestKernelByName(t *testing.T) {
	k, err := optim.KernelByName("none", 1)
	require.NoError(t, err)
	assert.Nil(t, k)

	k, err = optim.KernelByName("", 0)
	require.NoError(t, err)
	assert.Nil(t, k)

	k, err = optim.KernelByName("Huber", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "huber", k.Name())
	assert.Equal(t, 0.5, k.Delta())

	k, err = optim.KernelByName("cauchy", 2)
	require.NoError(t, err)
	assert.Equal(t, "cauchy", k.Name())

	_, err = optim.KernelByName("tukey", 1)
	assert.ErrorIs(t, err, optim.ErrUnknownKernel)

	_, err = optim.KernelByName("huber", 0)
	assert.ErrorIs(t, err, optim.ErrBadKernelDelta)
	assert.Contains(t, err.Error(), "delta")

	_, err = optim.KernelByName("cauchy", -1)
	assert.ErrorIs(t, err, optim.ErrBadKernelDelta)
}
