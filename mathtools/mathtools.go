// Package mathtools provides the arithmetic tools used by the chainact
// examples: an expression calculator, compound interest, and summary
// statistics.
//
// Registry returns the tools as a [tool.Registry], usable directly with
// an engine in in-process mode or served over MCP for delegated mode.
package mathtools

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/spetersoncode/chainact/tool"
)

// Registry returns a registry with the calc, compound and stats tools.
func Registry() *tool.Registry {
	return tool.NewRegistry().Add(
		tool.Func("calc", "Evaluate an arithmetic expression. Example: calc(expression='2 + 3 * 4')", calcHandler),
		tool.Func("compound", "Calculate compound interest. Example: compound(base=100000, rate=0.05, years=4)", compoundHandler),
		tool.Func("stats", "Calculate mean, median, stdev. Example: stats(values=[1.0, 2.0, 3.0])", statsHandler),
	)
}

// CalcArgs are the arguments for the calc tool.
type CalcArgs struct {
	Expression string `json:"expression" desc:"Arithmetic expression using + - * / and parentheses" required:"true"`
}

func calcHandler(ctx context.Context, args CalcArgs) (string, error) {
	result, err := evalExpression(args.Expression)
	if err != nil {
		return "", err
	}
	return formatNumber(result), nil
}

// CompoundArgs are the arguments for the compound tool.
type CompoundArgs struct {
	Base  float64 `json:"base" desc:"Principal amount" required:"true"`
	Rate  float64 `json:"rate" desc:"Interest rate per period, e.g. 0.05 for 5%" required:"true"`
	Years int     `json:"years" desc:"Number of periods" required:"true"`
}

func compoundHandler(ctx context.Context, args CompoundArgs) (string, error) {
	result := args.Base * math.Pow(1+args.Rate, float64(args.Years))
	return fmt.Sprintf("%.2f", result), nil
}

// StatsArgs are the arguments for the stats tool.
type StatsArgs struct {
	Values []float64 `json:"values" desc:"The numbers to summarize" required:"true"`
}

func statsHandler(ctx context.Context, args StatsArgs) (string, error) {
	if len(args.Values) == 0 {
		return "", fmt.Errorf("empty list")
	}
	if len(args.Values) == 1 {
		v := args.Values[0]
		return fmt.Sprintf("mean=%.2f, median=%.2f, stdev=0.00", v, v), nil
	}
	return fmt.Sprintf("mean=%.2f, median=%.2f, stdev=%.2f",
		mean(args.Values), median(args.Values), stdev(args.Values)), nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdev is the sample standard deviation.
func stdev(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
