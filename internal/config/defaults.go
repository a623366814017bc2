package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = ".erabu/erabu.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = ".erabu/indices/bleve"
	}
	if cfg.NLU.DefaultEngine == "" {
		cfg.NLU.DefaultEngine = "logit"
	}
	if cfg.NLU.OverlapThreshold == 0 {
		cfg.NLU.OverlapThreshold = 0.8
	}
	if cfg.NLU.TaggerEpochs == 0 {
		cfg.NLU.TaggerEpochs = 5
	}
	if cfg.NLU.PerceptronEpochs == 0 {
		cfg.NLU.PerceptronEpochs = 8
	}
	if cfg.NLU.CacheTTLSeconds == 0 {
		cfg.NLU.CacheTTLSeconds = 300
	}
	if cfg.NLU.CacheCapacity == 0 {
		cfg.NLU.CacheCapacity = 1024
	}
	if cfg.Learning.DefaultThreshold == 0 {
		cfg.Learning.DefaultThreshold = 0.5
	}
	if cfg.Evaluation.DefaultTrainPct == 0 {
		cfg.Evaluation.DefaultTrainPct = 80
	}
	if cfg.Evaluation.DefaultSeed == 0 {
		cfg.Evaluation.DefaultSeed = 42
	}
	if cfg.Watch.Directory == "" {
		cfg.Watch.Directory = ".erabu/drop"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".csv", ".json", ".xlsx", ".txt", ".pdf", ".docx"}
	}
}
