package logger

// Output controls what categories of information doctor logs at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity. The report and
// errors with hints are always printed and have no category.
//
//	1 (-v)      - run summary, config files merged, registry size
//	2 (-vv)     - + workers and timing
//	3 (-vvv)    - + extractor command lines

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 1 (-v) - Informational
	OutputSummary  OutputCategory = iota // Declarations, files and message counts
	OutputConfig                         // Which config files were merged
	OutputRegistry                       // Registry source and type count

	// Level 2 (-vv) - Detailed
	OutputTiming // Workers and run duration

	// Level 3 (-vvv) - Trace
	OutputExtractor // Extractor command lines
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputSummary:  VerbosityInfo,
	OutputConfig:   VerbosityInfo,
	OutputRegistry: VerbosityInfo,

	OutputTiming: VerbosityDebug,

	OutputExtractor: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
