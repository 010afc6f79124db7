package core

// Encapsulation modes a component's template can be rendered with.
const (
	EncapsulationNone   = "none"
	EncapsulationShadow = "shadow"
	EncapsulationScoped = "scoped"
)

// Property value types.
const (
	PropTypeString  = "string"
	PropTypeNumber  = "number"
	PropTypeBoolean = "boolean"
	PropTypeAny     = "any"
	PropTypeUnknown = "unknown"
)

// Listener targets.
const (
	ListenTargetHost     = ""
	ListenTargetDocument = "document"
	ListenTargetWindow   = "window"
	ListenTargetBody     = "body"
)

// ComponentDescriptor is one compiled component as produced by the metadata compiler.
// It is read-only for the duration of a build.
type ComponentDescriptor struct {
	TagName        string `json:"tagName"`
	ClassName      string `json:"componentClassName"`
	SourceFilePath string `json:"sourceFilePath"`
	// IsPlain marks components that are already valid custom elements and only need re-exporting.
	IsPlain bool `json:"isPlain,omitempty"`

	Encapsulation  string         `json:"encapsulation,omitempty"`
	DelegatesFocus bool           `json:"shadowDelegatesFocus,omitempty"`
	Properties     []PropertyMeta `json:"properties,omitempty"`
	States         []string       `json:"states,omitempty"`
	Methods        []string       `json:"methods,omitempty"`
	Events         []EventMeta    `json:"events,omitempty"`
	Listeners      []ListenerMeta `json:"listeners,omitempty"`
	Watchers       []WatcherMeta  `json:"watchers,omitempty"`
	ElementRef     string         `json:"elementRef,omitempty"`
	Styles         string         `json:"styles,omitempty"`
	StyleModes     []string       `json:"styleModes,omitempty"`
	Lifecycle      []string       `json:"lifecycle,omitempty"`
	HasRenderFn    bool           `json:"hasRenderFn,omitempty"`
	HasSlot        bool           `json:"hasSlot,omitempty"`
}

type PropertyMeta struct {
	Name      string `json:"name"`
	Attribute string `json:"attribute,omitempty"`
	Type      string `json:"type,omitempty"`
	Mutable   bool   `json:"mutable,omitempty"`
	Reflect   bool   `json:"reflect,omitempty"`
}

type EventMeta struct {
	Name     string `json:"name"`
	Method   string `json:"method"`
	Bubbles  bool   `json:"bubbles,omitempty"`
	Composed bool   `json:"composed,omitempty"`
}

type ListenerMeta struct {
	Name    string `json:"name"`
	Method  string `json:"method"`
	Target  string `json:"target,omitempty"`
	Capture bool   `json:"capture,omitempty"`
	Passive bool   `json:"passive,omitempty"`
}

type WatcherMeta struct {
	PropName   string `json:"propName"`
	MethodName string `json:"methodName"`
}

func (c ComponentDescriptor) HasLifecycle(name string) bool {
	for _, l := range c.Lifecycle {
		if l == name {
			return true
		}
	}
	return false
}

func (c ComponentDescriptor) HasStyles() bool {
	return c.Styles != "" || len(c.StyleModes) > 0
}

// ManagedComponents returns the components that need lifecycle wrapping, in input order.
func ManagedComponents(cmps []ComponentDescriptor) []ComponentDescriptor {
	managed := make([]ComponentDescriptor, 0, len(cmps))
	for _, cmp := range cmps {
		if !cmp.IsPlain {
			managed = append(managed, cmp)
		}
	}
	return managed
}
