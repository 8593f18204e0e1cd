package observability

// Config selects the logger and the observer that actors emit to.
type Config struct {
	Level    string `json:"level,omitempty" yaml:"level,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Format:   "text",
		Observer: "slog",
	}
}

func (c *Config) Merge(source *Config) {
	if source.Level != "" {
		c.Level = source.Level
	}
	if source.Format != "" {
		c.Format = source.Format
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
