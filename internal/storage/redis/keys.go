package redis

// Key prefix for all timer data
const keyPrefix = "xctimer:"

// documentKey returns the Redis key holding a stored document
func documentKey(key string) string {
	return keyPrefix + "doc:" + key
}

// metaKey returns the hash recording when and how large a document was saved
func metaKey(key string) string {
	return keyPrefix + "meta:" + key
}
