package config

import "go.uber.org/fx"

// Module provides *Config parsed from the process environment and flags.
var Module = fx.Provide(Load)
