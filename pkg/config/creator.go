package config

import (
	"github.com/tauraamui/dragonfx/internal/config"
	"github.com/tauraamui/dragonfx/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
