package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Component flags, first element of the runtime metadata tuple.
const (
	CmpFlagShadowDomEncapsulation = 1 << 0
	CmpFlagScopedCssEncapsulation = 1 << 1
	CmpFlagHasSlotRelocation      = 1 << 2
	CmpFlagNeedsShadowDomShim     = 1 << 3
	CmpFlagShadowDelegatesFocus   = 1 << 4
	CmpFlagHasMode                = 1 << 5
)

// Member flags, first element of every member tuple.
const (
	MemberFlagString      = 1 << 0
	MemberFlagNumber      = 1 << 1
	MemberFlagBoolean     = 1 << 2
	MemberFlagAny         = 1 << 3
	MemberFlagUnknown     = 1 << 4
	MemberFlagState       = 1 << 5
	MemberFlagMethod      = 1 << 6
	MemberFlagEvent       = 1 << 7
	MemberFlagElement     = 1 << 8
	MemberFlagReflectAttr = 1 << 9
	MemberFlagMutable     = 1 << 10
)

// Listener flags, first element of every listener tuple.
const (
	ListenerFlagPassive        = 1 << 0
	ListenerFlagCapture        = 1 << 1
	ListenerFlagTargetDocument = 1 << 2
	ListenerFlagTargetWindow   = 1 << 3
	ListenerFlagTargetBody     = 1 << 4
)

// runtimeDataJSONParseThreshold is the size above which metadata is emitted
// through JSON.parse, which engines parse faster than large object literals.
const runtimeDataJSONParseThreshold = 10000

// RuntimeMeta is the compact record handed to proxyNative: [flags, tagName, members, listeners].
type RuntimeMeta struct {
	Flags     int
	TagName   string
	Members   []RuntimeMember
	Listeners []RuntimeListener
}

type RuntimeMember struct {
	Name      string
	Flags     int
	Attribute string
}

type RuntimeListener struct {
	Flags  int
	Name   string
	Method string
}

// FormatRuntimeMeta derives the runtime metadata of a managed component.
// Methods are left out: native components keep them on the class itself.
func FormatRuntimeMeta(cmp ComponentDescriptor) RuntimeMeta {
	meta := RuntimeMeta{
		Flags:   componentFlags(cmp),
		TagName: cmp.TagName,
	}

	for _, prop := range cmp.Properties {
		meta.Members = append(meta.Members, RuntimeMember{
			Name:      prop.Name,
			Flags:     propertyFlags(prop),
			Attribute: prop.Attribute,
		})
	}
	for _, state := range cmp.States {
		meta.Members = append(meta.Members, RuntimeMember{Name: state, Flags: MemberFlagState})
	}
	if cmp.ElementRef != "" {
		meta.Members = append(meta.Members, RuntimeMember{Name: cmp.ElementRef, Flags: MemberFlagElement})
	}

	for _, l := range cmp.Listeners {
		meta.Listeners = append(meta.Listeners, RuntimeListener{
			Flags:  listenerFlags(l),
			Name:   l.Name,
			Method: l.Method,
		})
	}

	return meta
}

func componentFlags(cmp ComponentDescriptor) int {
	flags := 0
	switch cmp.Encapsulation {
	case EncapsulationShadow:
		flags |= CmpFlagShadowDomEncapsulation
		if cmp.DelegatesFocus {
			flags |= CmpFlagShadowDelegatesFocus
		}
	case EncapsulationScoped:
		flags |= CmpFlagScopedCssEncapsulation
	}
	if cmp.Encapsulation != EncapsulationShadow && cmp.HasSlot {
		flags |= CmpFlagHasSlotRelocation
	}
	if len(cmp.StyleModes) > 0 {
		flags |= CmpFlagHasMode
	}
	return flags
}

func propertyFlags(prop PropertyMeta) int {
	var flags int
	switch prop.Type {
	case PropTypeString:
		flags = MemberFlagString
	case PropTypeNumber:
		flags = MemberFlagNumber
	case PropTypeBoolean:
		flags = MemberFlagBoolean
	case PropTypeAny:
		flags = MemberFlagAny
	default:
		flags = MemberFlagUnknown
	}
	if prop.Mutable {
		flags |= MemberFlagMutable
	}
	if prop.Reflect {
		flags |= MemberFlagReflectAttr
	}
	return flags
}

func listenerFlags(l ListenerMeta) int {
	flags := 0
	if l.Passive {
		flags |= ListenerFlagPassive
	}
	if l.Capture {
		flags |= ListenerFlagCapture
	}
	switch l.Target {
	case ListenTargetDocument:
		flags |= ListenerFlagTargetDocument
	case ListenTargetWindow:
		flags |= ListenerFlagTargetWindow
	case ListenTargetBody:
		flags |= ListenerFlagTargetBody
	}
	return flags
}

// MarshalJSON writes the tuple form. Members keep declaration order, which
// encoding/json would not do for a map.
func (m RuntimeMeta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	tag, err := json.Marshal(m.TagName)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "[%d,%s,", m.Flags, tag)

	buf.WriteByte('{')
	for i, member := range m.Members {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(member.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		if member.Attribute != "" {
			attr, err := json.Marshal(member.Attribute)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, ":[%d,%s]", member.Flags, attr)
		} else {
			fmt.Fprintf(&buf, ":[%d]", member.Flags)
		}
	}
	buf.WriteString("},[")

	for i, l := range m.Listeners {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(l.Name)
		if err != nil {
			return nil, err
		}
		method, err := json.Marshal(l.Method)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "[%d,%s,%s]", l.Flags, name, method)
	}
	buf.WriteString("]]")

	return buf.Bytes(), nil
}

// StringifyRuntimeData renders runtime data as a JavaScript expression.
func StringifyRuntimeData(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize runtime data: %w", err)
	}
	if len(raw) > runtimeDataJSONParseThreshold {
		quoted, err := json.Marshal(string(raw))
		if err != nil {
			return "", fmt.Errorf("failed to quote runtime data: %w", err)
		}
		return "JSON.parse(" + string(quoted) + ")", nil
	}
	return string(raw), nil
}
