// Package destroy tears a cluster down by its labels and removes any
// artifacts published for it.
package destroy
