package rabbitmq

import (
	"github.com/portlink/streetturn/core/factory"
	"github.com/portlink/streetturn/core/notify"
)

func init() {
	_ = notify.Register("rabbitmq", func(conf map[string]any) (notify.Notifier, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewNotifier(c)
	})
}
