// Package debug holds switches for diagnostic output, read once from the
// environment.  A switch is on when its variable parses as true.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Apply bool
	Guard bool
	Store bool
	Load  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Apply = boolEnv("CONFDOC_DEBUG_APPLY")
	d.Guard = boolEnv("CONFDOC_DEBUG_GUARD")
	d.Store = boolEnv("CONFDOC_DEBUG_STORE")
	d.Load = boolEnv("CONFDOC_DEBUG_LOAD")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Apply() bool {
	return d.Apply
}
func Guard() bool {
	return d.Guard
}
func Store() bool {
	return d.Store
}
func Load() bool {
	return d.Load
}
