package capability

import "fmt"

// Capabilities describes what the backing store can do. It is probed once at
// startup and never changes for the life of the process.
type Capabilities struct {
	spatial  bool
	zipIndex bool
}

// New creates a capability descriptor.
func New(spatial, zipIndex bool) Capabilities {
	return Capabilities{spatial: spatial, zipIndex: zipIndex}
}

// None is a store with no radius acceleration at all.
func None() Capabilities { return Capabilities{} }

// Spatial reports whether indexed distance queries are available.
func (c Capabilities) Spatial() bool { return c.spatial }

// ZipIndex reports whether every active zip has a stored coordinate.
func (c Capabilities) ZipIndex() bool { return c.zipIndex }

func (c Capabilities) String() string {
	return fmt.Sprintf("spatial=%t zip_index=%t", c.spatial, c.zipIndex)
}
