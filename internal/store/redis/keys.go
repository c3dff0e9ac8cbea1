package redis

const (
	// KeyPrefixRecord is the prefix for named record keys
	KeyPrefixRecord = "viddst:record:"
)

// RecordKey returns the Redis key for a named record
func RecordKey(name string) string {
	return KeyPrefixRecord + name
}
