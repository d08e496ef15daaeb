// Package config loads avatarshuffle settings.
//
// Settings come from a TOML file (by default
// ~/.config/avatarshuffle/config.toml) laid over [Default], then from the
// environment:
//
//	OPENAI_API_KEY               avatar.api_key
//	OPENAI_MAX_REQUESTS          avatar.max_requests
//	OPENAI_MAX_IMAGES_PER_BATCH  avatar.max_images_per_batch
//	FIGMA_API_KEY                library.token
//	FIGMA_LIBRARY_FILE_KEY       library.file_key
//	AVATARSHUFFLE_REDIS_ADDR     storage.redis_addr (selects redis)
//	AVATARSHUFFLE_MONGO_URI      storage.mongo_uri (selects mongo)
//
// A sample file:
//
//	[avatar]
//	max_requests = 5
//	max_images_per_batch = 10
//
//	[category]
//	pattern = '^[^/]+/([^/]+)/'
//	group = 1
//
//	[run]
//	timeout = "60s"
//	rule = "image-only"
package config
