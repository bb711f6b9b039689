package question

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	Previous key.Binding
	Abandon  key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	Next:     key.NewBinding(key.WithKeys("enter", "right", "l")),
	Previous: key.NewBinding(key.WithKeys("left", "h")),
	Abandon:  key.NewBinding(key.WithKeys("esc")),
}

// optionKey maps a-d and 1-4 to option keys.
func optionKey(s string) (string, bool) {
	switch s {
	case "a", "A", "1":
		return "A", true
	case "b", "B", "2":
		return "B", true
	case "c", "C", "3":
		return "C", true
	case "d", "D", "4":
		return "D", true
	}
	return "", false
}
