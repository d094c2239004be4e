package dynamic

import "github.com/davecgh/go-spew/spew"

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump renders the plain form of d for debugging, with map keys sorted.
func (d *Dynamic) Dump() string {
	return dumpConfig.Sdump(d.Map())
}
