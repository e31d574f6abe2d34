package mathtools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalExpression(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2 + 3", 5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"1.5 * 2", 3},
		{"100000 * 1.05", 105000},
		{"  7  ", 7},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := evalExpression(tc.expr)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, expr := range []string{"", "2 +", "(2 + 3", "2 & 3", "1..2", "a + b"} {
			_, err := evalExpression(expr)
			assert.Error(t, err, "expression %q", expr)
		}
	})

	t.Run("rejects division by zero", func(t *testing.T) {
		_, err := evalExpression("1 / 0")
		assert.ErrorContains(t, err, "division by zero")
	})
}

func TestCalcHandler(t *testing.T) {
	ctx := context.Background()

	result, err := calcHandler(ctx, CalcArgs{Expression: "2 + 3 * 4"})
	require.NoError(t, err)
	assert.Equal(t, "14", result)

	result, err = calcHandler(ctx, CalcArgs{Expression: "1 / 3"})
	require.NoError(t, err)
	assert.Contains(t, result, "0.333333")

	_, err = calcHandler(ctx, CalcArgs{Expression: "2 **"})
	assert.Error(t, err)
}

func TestCompoundHandler(t *testing.T) {
	ctx := context.Background()

	result, err := compoundHandler(ctx, CompoundArgs{Base: 100000, Rate: 0.05, Years: 4})
	require.NoError(t, err)
	assert.Equal(t, "121550.63", result)

	result, err = compoundHandler(ctx, CompoundArgs{Base: 1000, Rate: 0, Years: 10})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", result)
}

func TestStatsHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("computes sample statistics", func(t *testing.T) {
		result, err := statsHandler(ctx, StatsArgs{Values: []float64{2, 4, 4, 4, 5, 5, 7, 9}})
		require.NoError(t, err)
		assert.Equal(t, "mean=5.00, median=4.50, stdev=2.14", result)
	})

	t.Run("single value has zero stdev", func(t *testing.T) {
		result, err := statsHandler(ctx, StatsArgs{Values: []float64{42}})
		require.NoError(t, err)
		assert.Equal(t, "mean=42.00, median=42.00, stdev=0.00", result)
	})

	t.Run("empty list is an error", func(t *testing.T) {
		_, err := statsHandler(ctx, StatsArgs{Values: nil})
		assert.ErrorContains(t, err, "empty")
	})
}

func TestRegistry(t *testing.T) {
	r := Registry()

	assert.Equal(t, []string{"calc", "compound", "stats"}, r.Names())

	calcTool, ok := r.GetTool("calc")
	require.True(t, ok)
	assert.Contains(t, string(calcTool.Parameters), "expression")
}
