package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown error - catch-all
	UnknownCode Code = 0

	// Surface lint (un-translatable Python constructs)
	LintInfo             Code = 1000
	LintEval             Code = 1001
	LintExec             Code = 1002
	LintMetaclass        Code = 1003
	LintGlobals          Code = 1004
	LintLocals           Code = 1005
	LintDynamicAttr      Code = 1006
	LintDynamicClass     Code = 1007
	LintGetattrHook      Code = 1008
	LintSetattrHook      Code = 1009
	LintDelattrHook      Code = 1010
	LintGetattributeHook Code = 1011

	// Rejection patterns that the ownership model cannot express
	LintIterMutation  Code = 1100
	LintSelfReference Code = 1101
	LintCyclicAssign  Code = 1102

	// Ownership analysis
	OwnInfo          Code = 2000
	OwnUseAfterMove  Code = 2001
	OwnMoveInLoop    Code = 2002
	OwnCloneInserted Code = 2003

	// Memory safety verification
	MemInfo           Code = 3000
	MemUseAfterMove   Code = 3001
	MemNullDeref      Code = 3002
	MemBufferOverflow Code = 3003
	MemDataRace       Code = 3004
	// Reserved categories, emitted only for disallowed aliasing patterns
	MemDoubleBorrow    Code = 3005
	MemMutableAliasing Code = 3006
	MemLifetime        Code = 3007

	// Inlining
	InlInfo       Code = 4000
	InlDepthLimit Code = 4001
	InlRecursive  Code = 4002

	// Performance lint
	PerfInfo           Code = 5000
	PerfLargeCopyParam Code = 5001
	PerfDeepNesting    Code = 5002
	PerfStringConcat   Code = 5003
	PerfPowerInLoop    Code = 5004
	PerfExpensiveCall  Code = 5005
	PerfLargeListLoop  Code = 5006
	PerfRangeLen       Code = 5007
	PerfSortInLoop     Code = 5008
	PerfNestedAggr     Code = 5009
	PerfRepeatedAppend Code = 5010
	PerfRemoveInLoop   Code = 5011
	PerfLinearSearch   Code = 5012

	// Code generation / fix pipeline
	GenInfo          Code = 6000
	GenUnsupported   Code = 6001
	GenEmitterFailed Code = 6002
	GenFixFailed     Code = 6003

	// Front-end / HIR construction
	SynInfo           Code = 6500
	SynParseError     Code = 6501
	SynHirBuildFailed Code = 6502

	// I/O errors
	IOLoadFileError  Code = 7001
	IOWriteFileError Code = 7002

	// Project / batch errors
	ProjInfo           Code = 8000
	ProjNoRoot         Code = 8001
	ProjBadManifest    Code = 8002
	ProjDuplicateInput Code = 8003
	ProjBadPattern     Code = 8004

	// Observability
	ObsInfo    Code = 9000
	ObsTimings Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		LintInfo:             "Surface lint information",
		LintEval:             "eval() is not supported",
		LintExec:             "exec() is not supported",
		LintMetaclass:        "Metaclasses are not supported",
		LintGlobals:          "globals() is not supported",
		LintLocals:           "locals() is not supported",
		LintDynamicAttr:      "Dynamic attribute manipulation is not fully supported",
		LintDynamicClass:     "Dynamic class creation with type() is not supported",
		LintGetattrHook:      "Dynamic attribute access via __getattr__",
		LintSetattrHook:      "Dynamic attribute setting via __setattr__",
		LintDelattrHook:      "Dynamic attribute deletion via __delattr__",
		LintGetattributeHook: "Attribute access interception via __getattribute__",
		LintIterMutation:     "Mutation of a collection while iterating over it",
		LintSelfReference:    "Self-referential data structure",
		LintCyclicAssign:     "Cyclic reference between objects",
		OwnInfo:              "Ownership information",
		OwnUseAfterMove:      "Use of moved value",
		OwnMoveInLoop:        "Value moved inside a loop body",
		OwnCloneInserted:     "Clone inserted to resolve aliasing",
		MemInfo:              "Memory safety information",
		MemUseAfterMove:      "Use after move",
		MemNullDeref:         "Null pointer dereference",
		MemBufferOverflow:    "Buffer overflow",
		MemDataRace:          "Data race",
		MemDoubleBorrow:      "Double borrow",
		MemMutableAliasing:   "Mutable aliasing violation",
		MemLifetime:          "Lifetime violation",
		InlInfo:              "Inlining information",
		InlDepthLimit:        "Inlining depth limit reached",
		InlRecursive:         "Recursive function cannot be inlined",
		PerfInfo:             "Performance information",
		PerfLargeCopyParam:   "Large value passed by copy",
		PerfDeepNesting:      "Deeply nested loops",
		PerfStringConcat:     "String concatenation in loop",
		PerfPowerInLoop:      "Power operation in loop",
		PerfExpensiveCall:    "Expensive function called in loop",
		PerfLargeListLoop:    "Large list created in loop",
		PerfRangeLen:         "range(len(x)) instead of enumerate",
		PerfSortInLoop:       "Sorting inside a loop",
		PerfNestedAggr:       "Aggregate function in nested loop",
		PerfRepeatedAppend:   "Multiple append calls in loop",
		PerfRemoveInLoop:     "List remove() in nested loop",
		PerfLinearSearch:     "Linear search method in loop",
		GenInfo:              "Code generation information",
		GenUnsupported:       "Construct not supported by the emitter",
		GenEmitterFailed:     "Emitter failed",
		GenFixFailed:         "Fix pipeline failed",
		SynInfo:              "Syntax information",
		SynParseError:        "Parse error",
		SynHirBuildFailed:    "HIR construction failed",
		IOLoadFileError:      "I/O load file error",
		IOWriteFileError:     "I/O write file error",
		ProjInfo:             "Project information",
		ProjNoRoot:           "Project root not found",
		ProjBadManifest:      "Invalid project manifest",
		ProjDuplicateInput:   "Duplicate input file",
		ProjBadPattern:       "Invalid file pattern",
		ObsInfo:              "Observability information",
		ObsTimings:           "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("OWN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INL%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRF%04d", ic)
	case ic >= 6000 && ic < 6500:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 6500 && ic < 7000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
