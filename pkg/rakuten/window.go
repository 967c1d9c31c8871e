package rakuten

import "github.com/ilkoid/rakuten-agent/pkg/config"

// Window — правило обрезки выдачи: если элементов больше Threshold,
// первые Offset отбрасываются. Иначе выдача не меняется.
type Window struct {
	Threshold int
	Offset    int
}

// DefaultWindow — поведение по умолчанию: при >5 товарах отбросить первые 4.
func DefaultWindow() Window {
	return Window{
		Threshold: config.DefaultWindowThreshold,
		Offset:    config.DefaultWindowOffset,
	}
}

// WindowFromConfig строит окно из rakuten секции конфигурации.
func WindowFromConfig(cfg config.RakutenConfig) Window {
	cfg = cfg.GetDefaults()
	return Window{
		Threshold: *cfg.WindowThreshold,
		Offset:    *cfg.WindowOffset,
	}
}

// Apply возвращает подсрез исходного среза без копирования.
func Apply[T any](w Window, items []T) []T {
	if len(items) <= w.Threshold {
		return items
	}
	if w.Offset >= len(items) {
		return items[:0]
	}
	return items[w.Offset:]
}
