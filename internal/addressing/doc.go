// Package addressing plans the static private address of every node.
//
// Addresses are deterministic: node i gets network+10+i. The network
// address, the gateway (network+1) and eight buffer addresses are never
// handed out, and neither is the broadcast address. Nothing is probed on
// the network; the planned range is assumed to be free.
package addressing
