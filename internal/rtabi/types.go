// Package rtabi defines the ABI constants shared between the code generator
// and the virtual machine. Both sides must agree on these values.
package rtabi

// Target configuration
const (
	// WordSize is the size of one machine word in bytes. Every scalar,
	// pointer and static link occupies exactly one word.
	WordSize = 4

	// DefaultMemorySize is the size of the simulated address space in bytes.
	DefaultMemorySize = 1024
)

// Basic type sizes in bytes
const (
	SizeInt  = WordSize
	SizeLog  = WordSize
	SizeStr  = WordSize // strings are addresses of a data cell
	SizePtr  = WordSize
	SizeVoid = 0
)

// Frame layout
const (
	// StaticLinkOffset is the offset of the static link from the frame pointer.
	// The same slot holds the return value once the callee finishes.
	StaticLinkOffset = 0

	// ReturnSlotOffset is the offset of the return value from the frame pointer.
	ReturnSlotOffset = StaticLinkOffset
)

// Reserved pseudo-labels naming the live registers.
const (
	FramePointer = "{FP}"
	StackPointer = "{SP}"
)

// Boolean encoding
const (
	False = 0
	True  = 1
)
