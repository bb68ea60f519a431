package config

import "go.uber.org/fx"

// Module provides application configuration to the graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)
