package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/paveg/tundra"
	"github.com/paveg/tundra/internal/vector"
	"github.com/paveg/tundra/internal/version"
)

func customUsage() {
	fmt.Fprintf(os.Stderr, "Tundra Columnar Engine CLI (version %s)\n\n", version.Version)
	fmt.Fprintf(os.Stderr, "Usage: tundra-cli [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --demo\n\t\tRun the sparse array demo\n")
	fmt.Fprintf(os.Stderr, "  --benchmark\n\t\tCompare sparse and dense operation throughput\n")
	fmt.Fprintf(os.Stderr, "  --rows N\n\t\tNumber of rows to use (default: 1000 for demo, 1000000 for benchmark)\n")
	fmt.Fprintf(os.Stderr, "  -v, --version\n\t\tPrint version information and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	versionFlag := flag.Bool("v", false, "Print version and exit")
	flag.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	demoFlag := flag.Bool("demo", false, "Run the sparse array demo")
	benchmarkFlag := flag.Bool("benchmark", false, "Compare sparse and dense operation throughput")
	rowsFlag := flag.Int("rows", 0, "Number of rows to use")

	flag.Usage = customUsage
	flag.Parse()

	if *versionFlag {
		fmt.Print(version.Info().String())
		return
	}

	switch {
	case *demoFlag:
		runDemo(*rowsFlag)
	case *benchmarkFlag:
		runBenchmark(*rowsFlag)
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func runDemo(rows int) {
	fmt.Println("Tundra Columnar Engine Demo")
	fmt.Println("===========================")

	if rows == 0 {
		rows = 1000
	}

	const sparsity = 0.95
	rng := rand.New(rand.NewSource(42))

	left := make([]float64, rows)
	right := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if rng.Float64() > sparsity {
			left[i] = rng.Float64() * 100
		}
		if rng.Float64() > sparsity {
			right[i] = rng.Float64() * 100
		}
	}

	a, err := tundra.NewSparseFromFloat64s(left, 0.0)
	if err != nil {
		log.Fatalf("building sparse array: %v", err)
	}
	b, err := tundra.NewSparseFromFloat64s(right, 0.0)
	if err != nil {
		log.Fatalf("building sparse array: %v", err)
	}

	fmt.Printf("left:  len=%d stored=%d density=%.3f\n", a.Len(), a.Npoints(), a.Density())
	fmt.Printf("right: len=%d stored=%d density=%.3f\n", b.Len(), b.Npoints(), b.Density())

	sum, err := a.Op(b, tundra.Add)
	if err != nil {
		log.Fatalf("adding sparse arrays: %v", err)
	}
	fmt.Printf("left + right: stored=%d density=%.3f fill=%v\n",
		sum.Npoints(), sum.Density(), sum.FillValue())

	total, err := sum.Sum()
	if err != nil {
		log.Fatalf("reducing: %v", err)
	}
	fmt.Printf("sum(left + right) = %v\n", total)

	scaled, err := a.Op(2.5, tundra.Mul)
	if err != nil {
		log.Fatalf("scaling: %v", err)
	}
	fmt.Printf("left * 2.5: fill=%v stored=%d\n", scaled.FillValue(), scaled.Npoints())

	// Division conventions: x // 0 is signed infinity, 0 // 0 is NaN.
	quot, err := tundra.Arithmetic(
		tundra.NewColumnFromInt64s("x", []int64{1, 0, -1}).Data(),
		tundra.NewColumnFromInt64s("y", []int64{0, 0, 0}).Data(),
		tundra.FloorDiv,
	)
	if err != nil {
		log.Fatalf("floordiv: %v", err)
	}
	if qv, ok := quot.(*vector.Vector); ok {
		fmt.Printf("[1 0 -1] // [0 0 0] = %v\n", qv.Float64s())
	}
}

func runBenchmark(rows int) {
	fmt.Println("Tundra Benchmark: sparse vs dense addition")

	if rows == 0 {
		rows = 1_000_000
	}
	const sparsity = 0.99
	rng := rand.New(rand.NewSource(7))

	dense := make([]float64, rows)
	for i := range dense {
		if rng.Float64() > sparsity {
			dense[i] = rng.Float64()
		}
	}

	a, err := tundra.NewSparseFromFloat64s(dense, 0.0)
	if err != nil {
		log.Fatalf("building sparse array: %v", err)
	}
	b, err := tundra.NewSparseFromFloat64s(dense, 0.0)
	if err != nil {
		log.Fatalf("building sparse array: %v", err)
	}

	start := time.Now()
	if _, err := a.Op(b, tundra.Add); err != nil {
		log.Fatalf("sparse add: %v", err)
	}
	sparseDur := time.Since(start)

	lc := tundra.NewColumnFromFloat64s("l", dense)
	rc := tundra.NewColumnFromFloat64s("r", dense)
	start = time.Now()
	if _, err := lc.Op(rc, tundra.Add); err != nil {
		log.Fatalf("dense add: %v", err)
	}
	denseDur := time.Since(start)

	fmt.Printf("rows=%d stored=%d (%.1f%%)\n", rows, a.Npoints(),
		100*float64(a.Npoints())/float64(rows))
	fmt.Printf("sparse add: %v\n", sparseDur)
	fmt.Printf("dense add:  %v\n", denseDur)
}
