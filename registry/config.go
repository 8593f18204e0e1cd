package registry

import "time"

// DefaultNamespace is created during bootstrap before any external traffic.
const DefaultNamespace = "default"

// Config defines configuration for a Registry instance.
type Config struct {
	// Identity used in events.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Mailbox capacities for the registry and for each bucket.
	MailboxSize       int `json:"mailbox_size,omitempty" yaml:"mailbox_size,omitempty"`
	BucketMailboxSize int `json:"bucket_mailbox_size,omitempty" yaml:"bucket_mailbox_size,omitempty"`

	// Upper bound for the whole bootstrap, including snapshot restore.
	BootstrapTimeout time.Duration `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:              "bidon",
		MailboxSize:       1024,
		BucketMailboxSize: 1024,
		BootstrapTimeout:  10 * time.Second,
	}
}

func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.MailboxSize > 0 {
		c.MailboxSize = source.MailboxSize
	}
	if source.BucketMailboxSize > 0 {
		c.BucketMailboxSize = source.BucketMailboxSize
	}
	if source.BootstrapTimeout > 0 {
		c.BootstrapTimeout = source.BootstrapTimeout
	}
}
