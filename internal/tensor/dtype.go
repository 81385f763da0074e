package tensor

// DataType identifies the element type of a buffer. Only float32 is
// stored; weight blobs use the same element width.
type DataType int

const (
	Float32 DataType = iota
)

func (dt DataType) String() string {
	if dt == Float32 {
		return "float32"
	}
	return "unknown"
}
