package directive

import (
	"fmt"
	"regexp"
	"strings"
)

var linePattern = regexp.MustCompile(`#\s*@pyrite:\s*(\w+)\s*=\s*(.+)`)

// handler applies a single key's value to a Set.
type handler func(s *Set, value string) error

// handlers maps each known directive key to its applier.
// The key set is closed; anything else is an error.
var handlers = map[string]handler{
	"optimization_level": func(s *Set, v string) error {
		switch v {
		case "standard":
			s.OptimizationLevel = OptStandard
		case "conservative", "size":
			s.OptimizationLevel = OptConservative
		case "aggressive", "speed", "latency", "throughput":
			s.OptimizationLevel = OptAggressive
		default:
			return fmt.Errorf("unknown optimization_level %q", v)
		}
		return nil
	},
	"optimization_hint": func(s *Set, v string) error {
		s.OptimizationHints = append(s.OptimizationHints, v)
		return nil
	},
	"ownership": func(s *Set, v string) error {
		switch v {
		case "owned":
			s.Ownership = OwnershipOwned
		case "borrowed":
			s.Ownership = OwnershipBorrowed
		case "shared":
			s.Ownership = OwnershipShared
		default:
			return fmt.Errorf("unknown ownership %q", v)
		}
		return nil
	},
	"string_strategy": func(s *Set, v string) error {
		switch v {
		case "conservative":
			s.StringStrategy = StringConservative
		case "always_owned":
			s.StringStrategy = StringAlwaysOwned
		case "zero_copy":
			s.StringStrategy = StringZeroCopy
		default:
			return fmt.Errorf("unknown string_strategy %q", v)
		}
		return nil
	},
	"hash_strategy": func(s *Set, v string) error {
		switch v {
		case "standard":
			s.HashStrategy = HashStandard
		case "fnv":
			s.HashStrategy = HashFnv
		case "ahash":
			s.HashStrategy = HashAHash
		default:
			return fmt.Errorf("unknown hash_strategy %q", v)
		}
		return nil
	},
	"bounds_checking": func(s *Set, v string) error {
		switch v {
		case "explicit":
			s.BoundsChecking = BoundsExplicit
		case "implicit":
			s.BoundsChecking = BoundsImplicit
		case "disabled":
			s.BoundsChecking = BoundsDisabled
		default:
			return fmt.Errorf("unknown bounds_checking %q", v)
		}
		return nil
	},
	"panic_behavior": func(s *Set, v string) error {
		switch v {
		case "propagate":
			s.PanicBehavior = PanicPropagate
		case "return_error":
			s.PanicBehavior = PanicReturnError
		case "abort":
			s.PanicBehavior = PanicAbort
		default:
			return fmt.Errorf("unknown panic_behavior %q", v)
		}
		return nil
	},
	"thread_safety": func(s *Set, v string) error {
		switch v {
		case "required", "true":
			s.ThreadSafety = ThreadRequired
		case "not_required", "false":
			s.ThreadSafety = ThreadNotRequired
		default:
			return fmt.Errorf("unknown thread_safety %q", v)
		}
		return nil
	},
	"performance_critical": func(s *Set, v string) error {
		switch v {
		case "true":
			s.PerformanceCritical = true
		case "false":
			s.PerformanceCritical = false
		default:
			return fmt.Errorf("performance_critical must be true or false, got %q", v)
		}
		return nil
	},
	"error_strategy": func(s *Set, v string) error {
		switch v {
		case "panic":
			s.ErrorStrategy = ErrorPanic
		case "result_type":
			s.ErrorStrategy = ErrorResultType
		case "option_type":
			s.ErrorStrategy = ErrorOptionType
		default:
			return fmt.Errorf("unknown error_strategy %q", v)
		}
		return nil
	},
}

// Apply applies a single key/value pair to the set. Values may be quoted.
func (s *Set) Apply(key, value string) error {
	h, ok := handlers[key]
	if !ok {
		return fmt.Errorf("unknown directive key %q", key)
	}
	return h(s, unquote(strings.TrimSpace(value)))
}

// ParseLine applies a directive comment line to the set. Lines that do
// not carry the @pyrite marker are skipped without error; the bool
// reports whether the line matched.
func (s *Set) ParseLine(line string) (bool, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return false, nil
	}
	return true, s.Apply(m[1], m[2])
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
