package redis

const (
	// KeyPrefix namespaces every key this application writes.
	KeyPrefix = "netcompare:"
	// KeyPrefixSession is the prefix for per-visitor snapshot keys.
	KeyPrefixSession = KeyPrefix + "session:"
)

// Key returns the Redis key for a store key.
func Key(key string) string {
	return KeyPrefixSession + key
}

// SessionPattern matches every snapshot key, for SCAN.
func SessionPattern() string {
	return KeyPrefixSession + "*"
}
