package domain

// Config mirrors ~/.aocenv/config.yaml.
type Config struct {
	ConfigFormatVersion string              `yaml:"config_format_version"`
	Storage             StorageSettings     `yaml:"storage"`
	Session             SessionSettings     `yaml:"session"`
	Remote              RemoteSettings      `yaml:"remote"`
	Solution            SolutionSettings    `yaml:"solution"`
	Classifier          ClassifierSettings  `yaml:"classifier"`
	Performance         PerformanceSettings `yaml:"performance"`
	Sync                SyncSettings        `yaml:"sync"`
}

// StorageSettings locates local state.
type StorageSettings struct {
	DataDir string `yaml:"data_dir"`
	Profile string `yaml:"profile"`
}

// SessionSettings says where the externally supplied credential lives.
type SessionSettings struct {
	CookieEnvVar string `yaml:"cookie_env_var"`
	CookieFile   string `yaml:"cookie_file"`
}

// RemoteSettings configures the puzzle site client.
type RemoteSettings struct {
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout"`
	RetryBackoff   string `yaml:"retry_backoff"`
}

// SolutionSettings controls how the user's solution is run and archived.
type SolutionSettings struct {
	Command          string `yaml:"command"`
	Shell            string `yaml:"shell"`
	WorkDir          string `yaml:"workdir"`
	Source           string `yaml:"source"`
	ArchiveDir       string `yaml:"archive_dir"`
	ArchiveOnCorrect bool   `yaml:"archive_on_correct"`
	OverwriteArchive bool   `yaml:"overwrite_archive"`
}

// ClassifierSettings points at an optional user rule table.
type ClassifierSettings struct {
	RulesFile string `yaml:"rules_file"`
}

// PerformanceSettings controls timing persistence.
type PerformanceSettings struct {
	KeepHistory    bool   `yaml:"keep_history"`
	HistoryBackend string `yaml:"history_backend"`
}

// SyncSettings bounds remote fan-out.
type SyncSettings struct {
	Concurrency int `yaml:"concurrency"`
}
