package config

import (
	"github.com/tauraamui/dragonfx/internal/config"
	"github.com/tauraamui/dragonfx/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
