package cpu

import "fmt"

// MatVecAdd computes dst = w·x + b.
//
// w is row-major with len(dst) rows and len(x) columns. Each row is
// accumulated left to right and the bias is added last.
func (cpu *CPUBackend) MatVecAdd(dst, w, x, b []float32) {
	rows, cols := len(dst), len(x)
	if len(w) != rows*cols || len(b) != rows {
		panic(fmt.Sprintf("matvec: weight %d, bias %d incompatible with [%d, %d]", len(w), len(b), rows, cols))
	}

	for i := 0; i < rows; i++ {
		row := w[i*cols : (i+1)*cols]
		var sum float32
		for j, v := range row {
			sum += v * x[j]
		}
		dst[i] = sum + b[i]
	}
}
