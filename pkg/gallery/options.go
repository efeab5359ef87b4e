package gallery

import (
	"fmt"
	"strconv"

	"vkgallery/pkg/config"
)

// LinkType selects how each image's clickable element is drawn
type LinkType string

const (
	LinkNumber LinkType = "number"
	LinkImage  LinkType = "image"
	LinkDiv    LinkType = "div"
)

// Order is sent to the service as rev
type Order int

const (
	OrderAscending  Order = 0
	OrderDescending Order = 1
)

// Options is the fully populated gallery configuration
type Options struct {
	Order             Order
	Loop              bool
	LinkType          LinkType
	MinSize           SizeTier
	MaxSize           SizeTier
	ContainerSelector string
	// Extra carries keys the gallery does not recognize
	Extra map[string]any
}

// Overrides is a partial configuration. Nil fields keep their current value.
type Overrides struct {
	Order             *Order         `yaml:"order,omitempty"`
	Loop              *bool          `yaml:"loop,omitempty"`
	LinkType          *LinkType      `yaml:"link_type,omitempty"`
	MinSize           *SizeTier      `yaml:"min_size,omitempty"`
	MaxSize           *SizeTier      `yaml:"max_size,omitempty"`
	ContainerSelector *string        `yaml:"container_selector,omitempty"`
	Extra             map[string]any `yaml:",inline"`
}

// DefaultOptions returns the built-in defaults
func DefaultOptions() Options {
	return Options{
		Order:             OrderAscending,
		Loop:              true,
		LinkType:          LinkDiv,
		MinSize:           SizeBig,
		MaxSize:           SizeXBig,
		ContainerSelector: "div",
		Extra:             map[string]any{},
	}
}

// Merge overlays the set fields of o onto a copy of opts. Values are not
// validated; unknown link types and sizes are handled where they are used.
func (opts Options) Merge(o Overrides) Options {
	merged := opts
	merged.Extra = make(map[string]any, len(opts.Extra)+len(o.Extra))
	for k, v := range opts.Extra {
		merged.Extra[k] = v
	}

	if o.Order != nil {
		merged.Order = *o.Order
	}
	if o.Loop != nil {
		merged.Loop = *o.Loop
	}
	if o.LinkType != nil {
		merged.LinkType = *o.LinkType
	}
	if o.MinSize != nil {
		merged.MinSize = *o.MinSize
	}
	if o.MaxSize != nil {
		merged.MaxSize = *o.MaxSize
	}
	if o.ContainerSelector != nil {
		merged.ContainerSelector = *o.ContainerSelector
	}
	for k, v := range o.Extra {
		merged.Extra[k] = v
	}

	return merged
}

// Get reads an option by its loose key, including passthrough keys
func (opts Options) Get(key string) (any, bool) {
	switch key {
	case "order":
		return opts.Order, true
	case "loop":
		return opts.Loop, true
	case "linkType":
		return opts.LinkType, true
	case "minSize":
		return opts.MinSize, true
	case "maxSize":
		return opts.MaxSize, true
	case "containerSelector":
		return opts.ContainerSelector, true
	}
	v, ok := opts.Extra[key]
	return v, ok
}

// OverridesFromMap builds overrides from a loose option bag. Recognized keys
// whose values cannot be converted are ignored; unrecognized keys go to Extra.
func OverridesFromMap(m map[string]any) Overrides {
	var o Overrides
	for key, value := range m {
		switch key {
		case "order":
			if n, ok := toInt(value); ok {
				order := Order(n)
				o.Order = &order
			}
		case "loop":
			if b, ok := toBool(value); ok {
				o.Loop = &b
			}
		case "linkType":
			if s, ok := toString(value); ok {
				lt := LinkType(s)
				o.LinkType = &lt
			}
		case "minSize":
			if s, ok := toString(value); ok {
				tier := SizeTier(s)
				o.MinSize = &tier
			}
		case "maxSize":
			if s, ok := toString(value); ok {
				tier := SizeTier(s)
				o.MaxSize = &tier
			}
		case "containerSelector":
			if s, ok := toString(value); ok {
				o.ContainerSelector = &s
			}
		default:
			if o.Extra == nil {
				o.Extra = make(map[string]any)
			}
			o.Extra[key] = value
		}
	}
	return o
}

// OverridesFromConfig converts the gallery section of the application config
func OverridesFromConfig(cfg config.GalleryConfig) Overrides {
	var o Overrides
	if cfg.Order != nil {
		order := Order(*cfg.Order)
		o.Order = &order
	}
	if cfg.Loop != nil {
		loop := *cfg.Loop
		o.Loop = &loop
	}
	if cfg.LinkType != nil {
		lt := LinkType(*cfg.LinkType)
		o.LinkType = &lt
	}
	if cfg.MinSize != nil {
		tier := SizeTier(*cfg.MinSize)
		o.MinSize = &tier
	}
	if cfg.MaxSize != nil {
		tier := SizeTier(*cfg.MaxSize)
		o.MaxSize = &tier
	}
	if cfg.ContainerSelector != nil {
		sel := *cfg.ContainerSelector
		o.ContainerSelector = &sel
	}
	if len(cfg.Extra) > 0 {
		o.Extra = make(map[string]any, len(cfg.Extra))
		for k, v := range cfg.Extra {
			o.Extra[k] = v
		}
	}
	return o
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case Order:
		return int(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	case int:
		return b != 0, true
	}
	return false, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case LinkType:
		return string(s), true
	case SizeTier:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	}
	return "", false
}
