package commands

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// TextWrapWidth is the column puzzle text is wrapped at
	TextWrapWidth = 100
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrCacheStoreUnavailable    = "cache store unavailable"
	ErrKeyRequired              = "--key is required"
	ErrExpectedRequired         = "--expected is required"
	ErrInputRequired            = "exactly one of --input or --input-file is required"
	ErrEmptyOutput              = "solution produced no output"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoCachedEntries          = "No cached entries."
	MsgNoSubmissions            = "No submissions recorded yet."
	MsgNoTestCases              = "No test cases. Add one with `aocenv test add`."
	MsgNoTimings                = "No timings recorded yet."
	MsgNoHistorySamples         = "No history samples recorded yet."
	MsgNoStars                  = "No stars recorded yet. Run `aocenv sync` to import them."
	MsgCancelled                = "Cancelled."
)
