// Package factory instantiates pluggable modules (metrics sinks, notifiers,
// candidate sources) from configuration. A module is described by a type
// name and a map of raw settings; the registered factory decodes the
// settings into its own typed struct.
//
//	reg := factory.NewRegistry[notify.Notifier]()
//	_ = reg.Register("log", func(conf map[string]any) (notify.Notifier, error) {
//	    var c struct{ Level string `json:"level"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newLogNotifier(c.Level), nil
//	})
//	n, err := reg.Create(factory.ModuleConfig{Type: "log"})
package factory
