package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied. Placeholders merge per
// name; DataFiles accumulate.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Locale != "" {
		target.Locale = source.Locale
		target.Sources["locale"] = sourceType
	}
	if source.Count != 0 {
		target.Count = source.Count
		target.Sources["count"] = sourceType
	}
	if source.Seed != 0 {
		target.Seed = source.Seed
		target.Sources["seed"] = sourceType
	}
	if source.MaxDepth != 0 {
		target.MaxDepth = source.MaxDepth
		target.Sources["maxDepth"] = sourceType
	}
	if source.Format != "" {
		target.Format = source.Format
		target.Sources["format"] = sourceType
	}
	if source.Indent != 0 {
		target.Indent = source.Indent
		target.Sources["indent"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if len(source.Placeholders) > 0 {
		if target.Placeholders == nil {
			target.Placeholders = make(map[string]string, len(source.Placeholders))
		}
		for name, src := range source.Placeholders {
			target.Placeholders[name] = src
			target.Sources["placeholders."+name] = sourceType
		}
	}
	if len(source.DataFiles) > 0 {
		target.DataFiles = append(target.DataFiles, source.DataFiles...)
		target.Sources["dataFiles"] = sourceType
	}
}
