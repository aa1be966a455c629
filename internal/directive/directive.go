// Package directive parses translator hint comments of the form
//
//	# @pyrite: key = "value"
//
// placed on the lines directly above a function or class definition.
// Keys form a small closed set; unknown keys are reported, not ignored.
package directive

// OptimizationLevel controls how aggressively the inliner and emitter
// may rewrite a function.
type OptimizationLevel uint8

const (
	OptStandard OptimizationLevel = iota
	OptConservative
	OptAggressive
)

// Ownership hints how parameters of the function are taken.
type Ownership uint8

const (
	OwnershipOwned Ownership = iota
	OwnershipBorrowed
	OwnershipShared
)

// StringStrategy selects the string representation for emitted code.
type StringStrategy uint8

const (
	StringConservative StringStrategy = iota
	StringAlwaysOwned
	StringZeroCopy
)

// HashStrategy selects the hash map implementation for emitted code.
type HashStrategy uint8

const (
	HashStandard HashStrategy = iota
	HashFnv
	HashAHash
)

// BoundsChecking selects the indexing policy.
type BoundsChecking uint8

const (
	BoundsExplicit BoundsChecking = iota
	BoundsImplicit
	BoundsDisabled
)

// PanicBehavior selects what emitted code does on a failed runtime check.
type PanicBehavior uint8

const (
	PanicPropagate PanicBehavior = iota
	PanicReturnError
	PanicAbort
)

// ThreadSafety marks whether the function must be safe to call from
// multiple threads.
type ThreadSafety uint8

const (
	ThreadNotRequired ThreadSafety = iota
	ThreadRequired
)

// ErrorStrategy selects how Python exceptions surface in emitted code.
type ErrorStrategy uint8

const (
	ErrorPanic ErrorStrategy = iota
	ErrorResultType
	ErrorOptionType
)

// Set is the directive record attached to a function.
type Set struct {
	OptimizationLevel   OptimizationLevel
	OptimizationHints   []string
	Ownership           Ownership
	StringStrategy      StringStrategy
	HashStrategy        HashStrategy
	BoundsChecking      BoundsChecking
	PanicBehavior       PanicBehavior
	ThreadSafety        ThreadSafety
	PerformanceCritical bool
	ErrorStrategy       ErrorStrategy
}

// Default returns the directive set used when no annotations are present.
func Default() Set {
	return Set{
		OptimizationLevel: OptStandard,
		Ownership:         OwnershipOwned,
		StringStrategy:    StringConservative,
		HashStrategy:      HashStandard,
		BoundsChecking:    BoundsExplicit,
		PanicBehavior:     PanicPropagate,
		ThreadSafety:      ThreadNotRequired,
		ErrorStrategy:     ErrorPanic,
	}
}

func (o OptimizationLevel) String() string {
	switch o {
	case OptConservative:
		return "conservative"
	case OptAggressive:
		return "aggressive"
	}
	return "standard"
}

func (o Ownership) String() string {
	switch o {
	case OwnershipBorrowed:
		return "borrowed"
	case OwnershipShared:
		return "shared"
	}
	return "owned"
}

func (t ThreadSafety) String() string {
	if t == ThreadRequired {
		return "required"
	}
	return "not_required"
}

func (e ErrorStrategy) String() string {
	switch e {
	case ErrorResultType:
		return "result_type"
	case ErrorOptionType:
		return "option_type"
	}
	return "panic"
}
