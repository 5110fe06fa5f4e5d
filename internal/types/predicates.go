package types

// IsArray reports whether t is an array type.
func IsArray(t Type) bool {
	_, ok := t.(*Array)
	return ok
}
