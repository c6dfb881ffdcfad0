package recon

// Registry answers class and interface questions for the covering rules.
//
// Implementations must be safe for concurrent reads. A name the registry cannot resolve
// is simply unknown; lookups never fail.
type Registry interface {
	// IsKnownType reports whether name is a known class or interface.
	IsKnownType(name string) bool
	// IsSubtypeOf reports whether sub strictly extends sup or implements it.
	// The engine only asks when both names are known.
	IsSubtypeOf(sub, sup string) bool
}

// NopRegistry knows no types. With it only exact, refinement and primitive rules apply.
type NopRegistry struct{}

func (NopRegistry) IsKnownType(string) bool { return false }

func (NopRegistry) IsSubtypeOf(string, string) bool { return false }
