// Package nn implements the feed-forward policy network evaluated by the
// inference engine.
//
// This package provides:
//   - Activation: closed set of activation kinds dispatched through a function table
//   - Parameter: named weight or bias storage
//   - Layer: dense layer computing act(W·x + b) into a caller-supplied buffer
//   - Architecture: the ordered (in, out, activation) signature of a network
//   - Network: ordered layers plus per-boundary scratch buffers
//
// Networks are built once from an Architecture with zeroed parameters. After
// the parameters are populated (normally by the weight loader) they are
// treated as read-only and may be shared by any number of evaluators, each
// with its own Scratch.
package nn
