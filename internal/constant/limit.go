package constant

const (
	DEFAULT_LIMIT = 20
	MAX_LIMIT     = 100

	MAX_FILE_SIZE = 5 * 1024 * 1024

	USERNAME_CACHE_TTL_MINUTES = 10
)
