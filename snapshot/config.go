package snapshot

import "fmt"

// Drivers accepted by Config.Driver.
const (
	DriverNone = ""
	DriverFile = "file"
	DriverBolt = "bolt"
)

// Config selects the snapshot backend. An empty Driver disables persistence.
type Config struct {
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"` // directory for "file", database file for "bolt"
}

func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Driver != "" {
		c.Driver = source.Driver
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration. It returns a nil Store when
// persistence is disabled.
func NewStore(cfg *Config) (Store, error) {
	switch cfg.Driver {
	case DriverNone:
		return nil, nil
	case DriverFile, DriverBolt:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: driver %s", ErrPathNotProvided, cfg.Driver)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}

	if cfg.Driver == DriverFile {
		return NewFileStore(cfg.Path), nil
	}
	return NewBoltStore(cfg.Path)
}
