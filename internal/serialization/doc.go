// Package serialization reads and writes weight blobs, the binary format in
// which trained policy parameters are delivered to the engine.
//
//	Format Structure (little-endian):
//	  [4 bytes: layer count (uint32)]
//	  per layer: [4 bytes: in (uint32)] [4 bytes: out (uint32)] [1 byte: activation]
//	  per layer: [out·in float32 weights, row-major] [out float32 biases]
//
// Activation bytes: 0 identity, 1 relu, 2 tanh, 3 output.
//
// Loading compares the blob's architecture signature with the target
// network before copying any parameter. Trailing bytes are tolerated and
// reported as a warning so minor format skew does not fail a load.
//
// Example usage:
//
//	net, _ := nn.Build(arch, cpu.New())
//	report, err := serialization.Load(blob, net)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range report.Warnings {
//	    log.Println(w)
//	}
package serialization
