package app

import (
	"time"

	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
	"github.com/vk/schematic/modules/decorator"
	"github.com/vk/schematic/modules/helpers"
	"github.com/vk/schematic/modules/router"
	"github.com/vk/schematic/modules/socketnav"
	"github.com/vk/schematic/modules/stage"
	"github.com/vk/schematic/modules/xhr"
)

// coreModules is the definitive list of all modules that are compiled into
// the schematic binary.
func coreModules(m *metrics.Collector, timeout time.Duration) []registry.Module {
	return []registry.Module{
		&helpers.Module{},
		&decorator.Module{},
		&xhr.Module{Metrics: m, Timeout: timeout},
		&stage.Module{Metrics: m},
		&router.Module{Metrics: m},
		&socketnav.Module{Metrics: m},
	}
}
