package simulation

import (
	"github.com/codefan-byte/caminos-tfg-sub000/internal/config"
)

// linkDelay looks up the configured delay for className, defaulting to 1
// cycle when the configuration names no such class.
func linkDelay(cfg *config.Configuration, className string) int {
	for _, lc := range cfg.LinkClasses {
		if lc.Name == className {
			return lc.Delay
		}
	}
	return 1
}

// messageSize derives the phit size Traffic generates each message at.
// Configuration threads it through traffic.extra, defaulting to the
// configured maximum packet size when unset so every message fits in
// exactly one packet by default.
func messageSize(cfg *config.Configuration) int {
	if cfg.Traffic.Extra > 0 {
		return cfg.Traffic.Extra
	}
	return cfg.MaximumPacketSize
}
