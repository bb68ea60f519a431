package cache

import "go.uber.org/fx"

// Module wires the redis-backed cache store.
var Module = fx.Module("cache",
	fx.Provide(NewRedisClient),
	fx.Provide(NewRedisStore),
)
