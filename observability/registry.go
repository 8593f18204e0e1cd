package observability

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Named observers selectable from configuration. "slog" is resolved on
// every lookup so it follows slog.SetDefault.
var (
	namedMu  sync.RWMutex
	named    = map[string]Observer{"noop": NoOpObserver{}}
	builtins = map[string]func() Observer{
		"slog": func() Observer { return NewSlogObserver(slog.Default()) },
	}
)

// GetObserver resolves a comma-separated list of observer names. More than
// one name yields a MultiObserver over all of them.
func GetObserver(names string) (Observer, error) {
	var resolved []Observer
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		obs, err := lookup(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, obs)
	}

	switch len(resolved) {
	case 0:
		return nil, fmt.Errorf("unknown observer: %q (available: %s)", names, strings.Join(ObserverNames(), ", "))
	case 1:
		return resolved[0], nil
	default:
		return NewMultiObserver(resolved...), nil
	}
}

func lookup(name string) (Observer, error) {
	namedMu.RLock()
	obs, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return obs, nil
	}
	if build, ok := builtins[name]; ok {
		return build(), nil
	}
	return nil, fmt.Errorf("unknown observer: %s (available: %s)", name, strings.Join(ObserverNames(), ", "))
}

// RegisterObserver adds or replaces a named observer. A registered name
// shadows the built-in of the same name.
func RegisterObserver(name string, observer Observer) {
	namedMu.Lock()
	defer namedMu.Unlock()
	named[name] = observer
}

// ObserverNames lists every name GetObserver accepts.
func ObserverNames() []string {
	namedMu.RLock()
	defer namedMu.RUnlock()

	names := make([]string, 0, len(named)+len(builtins))
	for name := range named {
		names = append(names, name)
	}
	for name := range builtins {
		if _, shadowed := named[name]; !shadowed {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
