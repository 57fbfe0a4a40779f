package config

const defaultMinDescriptionLength = 10

// DefaultExtensions lists the resume file types picked up by ingestion and the watcher.
var DefaultExtensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx", ".odt", ".rtf"}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/talentmatch/data/db/candidates.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/talentmatch/data/indices/bleve"
	}
	// Weights fall back only when both are unset.
	if cfg.Matching.SkillWeight == 0 && cfg.Matching.TextWeight == 0 {
		cfg.Matching.SkillWeight = 0.6
		cfg.Matching.TextWeight = 0.4
	}
	if cfg.Matching.DefaultLimit == 0 {
		cfg.Matching.DefaultLimit = 10
	}
	if cfg.Matching.MaxLimit == 0 {
		cfg.Matching.MaxLimit = 100
	}
	if cfg.Matching.MinDescriptionLength == nil {
		n := defaultMinDescriptionLength
		cfg.Matching.MinDescriptionLength = &n
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
