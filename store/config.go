package store

// DefaultTableName is the table used when Config.TableName is empty.
const DefaultTableName = "todos"

// Config holds configuration for the Store.
type Config struct {
	// TableName is the single table holding items and counters.
	// Default: "todos"
	TableName string

	// ConsistentReads makes queries and gets strongly consistent. Writes are
	// always immediately visible to a consistent read of the same key.
	// Default: false (eventually consistent, half the read cost)
	ConsistentReads bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TableName: DefaultTableName,
	}
}

// validate fills in defaults for unset values.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = DefaultTableName
	}
}
