package env

const (
	DebugKey     = "EVENTED_DEBUG"      // DebugKey turns on verbose diagnostics, including a trace of every dispatch pass.
	LogFormatKey = "EVENTED_LOG_FORMAT" // LogFormatKey selects the diagnostic log format, either "text" or "json".
	LogFileKey   = "EVENTED_LOG_FILE"   // LogFileKey names a file that receives a JSON copy of diagnostic logs.
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Settings are the environment controlled diagnostic settings.
// The event packages never read these directly, they only receive the logger built from them.
type Settings struct {
	Debug     bool
	LogFormat string
	LogFile   string
}

// LoadSettings reads [Settings] from the environment.
func LoadSettings() Settings {
	return Settings{
		Debug:     Bool(DebugKey, false),
		LogFormat: OneOf(LogFormatKey, FormatText, FormatText, FormatJSON),
		LogFile:   Val(LogFileKey, ""),
	}
}
