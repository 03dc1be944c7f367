// Package capacity holds the load/radius charts of the crane fleet and picks
// the smallest crane class able to lift a piece at a given radius.
package capacity
