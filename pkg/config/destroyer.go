package config

import (
	"github.com/tauraamui/dragonfx/internal/config"
	"github.com/tauraamui/dragonfx/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
