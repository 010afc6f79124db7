package core

import (
	"maps"
	"slices"
)

// Build feature names. They become keys of the BUILD object the runtime reads.
const (
	FeatureLazyLoad          = "lazyLoad"
	FeatureHydrateClientSide = "hydrateClientSide"
	FeatureHydrateServerSide = "hydrateServerSide"
	FeatureTaskQueue         = "taskQueue"
	FeatureDevTools          = "devTools"
	FeatureIsDev             = "isDev"
	FeatureIsDebug           = "isDebug"
	FeatureHydratedAttribute = "hydratedAttribute"
	FeatureHydratedClass     = "hydratedClass"

	FeatureStyle         = "style"
	FeatureMode          = "mode"
	FeatureShadowDom     = "shadowDom"
	FeatureShadowFocus   = "shadowDelegatesFocus"
	FeatureScoped        = "scoped"
	FeatureSlot          = "slot"
	FeatureSlotRelocate  = "slotRelocation"
	FeatureMember        = "member"
	FeatureProp          = "prop"
	FeaturePropString    = "propString"
	FeaturePropNumber    = "propNumber"
	FeaturePropBoolean   = "propBoolean"
	FeaturePropMutable   = "propMutable"
	FeatureReflect       = "reflect"
	FeatureState         = "state"
	FeatureMethod        = "method"
	FeatureEvent         = "event"
	FeatureElement       = "element"
	FeatureListener      = "hostListener"
	FeatureListenTarget  = "hostListenerTarget"
	FeatureWatchCallback = "watchCallback"
	FeatureVdomRender    = "vdomRender"
	FeatureLifecycle     = "lifecycle"

	FeatureConnectedCallback    = "connectedCallback"
	FeatureDisconnectedCallback = "disconnectedCallback"
	FeatureComponentWillLoad    = "cmpWillLoad"
	FeatureComponentDidLoad     = "cmpDidLoad"
	FeatureComponentWillUpdate  = "cmpWillUpdate"
	FeatureComponentDidUpdate   = "cmpDidUpdate"
	FeatureComponentWillRender  = "cmpWillRender"
	FeatureComponentDidRender   = "cmpDidRender"
)

var lifecycleFeatures = map[string]string{
	"connectedCallback":    FeatureConnectedCallback,
	"disconnectedCallback": FeatureDisconnectedCallback,
	"componentWillLoad":    FeatureComponentWillLoad,
	"componentDidLoad":     FeatureComponentDidLoad,
	"componentWillUpdate":  FeatureComponentWillUpdate,
	"componentDidUpdate":   FeatureComponentDidUpdate,
	"componentWillRender":  FeatureComponentWillRender,
	"componentDidRender":   FeatureComponentDidRender,
}

// BuildFeatures maps a feature name to whether the runtime compiles it in.
type BuildFeatures map[string]bool

// Names returns the feature names in sorted order.
func (f BuildFeatures) Names() []string {
	return slices.Sorted(maps.Keys(f))
}

func (f BuildFeatures) Clone() BuildFeatures {
	return maps.Clone(f)
}

// DetectBuildFeatures computes the union of the capabilities the components use.
// Every known capability is present as a key so the runtime never reads undefined.
func DetectBuildFeatures(cmps []ComponentDescriptor) BuildFeatures {
	f := BuildFeatures{}
	for _, name := range []string{
		FeatureStyle, FeatureMode, FeatureShadowDom, FeatureShadowFocus, FeatureScoped,
		FeatureSlot, FeatureSlotRelocate, FeatureMember, FeatureProp, FeaturePropString,
		FeaturePropNumber, FeaturePropBoolean, FeaturePropMutable, FeatureReflect,
		FeatureState, FeatureMethod, FeatureEvent, FeatureElement, FeatureListener,
		FeatureListenTarget, FeatureWatchCallback, FeatureVdomRender, FeatureLifecycle,
	} {
		f[name] = false
	}
	for _, name := range lifecycleFeatures {
		f[name] = false
	}

	for _, cmp := range cmps {
		if cmp.IsPlain {
			continue
		}
		f[FeatureStyle] = f[FeatureStyle] || cmp.HasStyles()
		f[FeatureMode] = f[FeatureMode] || len(cmp.StyleModes) > 0
		f[FeatureShadowDom] = f[FeatureShadowDom] || cmp.Encapsulation == EncapsulationShadow
		f[FeatureShadowFocus] = f[FeatureShadowFocus] || (cmp.Encapsulation == EncapsulationShadow && cmp.DelegatesFocus)
		f[FeatureScoped] = f[FeatureScoped] || cmp.Encapsulation == EncapsulationScoped
		f[FeatureSlot] = f[FeatureSlot] || cmp.HasSlot
		f[FeatureSlotRelocate] = f[FeatureSlotRelocate] || (cmp.HasSlot && cmp.Encapsulation != EncapsulationShadow)
		f[FeatureProp] = f[FeatureProp] || len(cmp.Properties) > 0
		f[FeatureState] = f[FeatureState] || len(cmp.States) > 0
		f[FeatureMethod] = f[FeatureMethod] || len(cmp.Methods) > 0
		f[FeatureEvent] = f[FeatureEvent] || len(cmp.Events) > 0
		f[FeatureElement] = f[FeatureElement] || cmp.ElementRef != ""
		f[FeatureListener] = f[FeatureListener] || len(cmp.Listeners) > 0
		f[FeatureWatchCallback] = f[FeatureWatchCallback] || len(cmp.Watchers) > 0
		f[FeatureVdomRender] = f[FeatureVdomRender] || cmp.HasRenderFn

		for _, prop := range cmp.Properties {
			switch prop.Type {
			case PropTypeString:
				f[FeaturePropString] = true
			case PropTypeNumber:
				f[FeaturePropNumber] = true
			case PropTypeBoolean:
				f[FeaturePropBoolean] = true
			}
			f[FeaturePropMutable] = f[FeaturePropMutable] || prop.Mutable
			f[FeatureReflect] = f[FeatureReflect] || prop.Reflect
		}
		for _, l := range cmp.Listeners {
			f[FeatureListenTarget] = f[FeatureListenTarget] || l.Target != ListenTargetHost
		}
		for _, hook := range cmp.Lifecycle {
			if name, ok := lifecycleFeatures[hook]; ok {
				f[name] = true
				f[FeatureLifecycle] = true
			}
		}
	}

	f[FeatureMember] = f[FeatureProp] || f[FeatureState] || f[FeatureMethod] || f[FeatureElement] || f[FeatureEvent]
	return f
}

// ResolveBuildConditionals derives the feature set of the custom elements bundle.
// The bundle loads every component eagerly and synchronously, so lazy loading,
// hydration, the task queue and dev tooling are always off.
func ResolveBuildConditionals(cfg *Config, cmps []ComponentDescriptor) BuildFeatures {
	build := DetectBuildFeatures(cmps)

	build[FeatureLazyLoad] = false
	build[FeatureHydrateClientSide] = false
	build[FeatureHydrateServerSide] = false

	build[FeatureTaskQueue] = false
	UpdateBuildConditionals(cfg, build)
	build[FeatureDevTools] = false

	// The hook may not re-enable what the bundle type cannot support.
	for _, name := range eagerBundleDisabled {
		build[name] = false
	}

	return build
}

var eagerBundleDisabled = []string{
	FeatureLazyLoad,
	FeatureHydrateClientSide,
	FeatureHydrateServerSide,
	FeatureTaskQueue,
}

// UpdateBuildConditionals applies site-wide configuration to the feature set.
func UpdateBuildConditionals(cfg *Config, build BuildFeatures) {
	if cfg == nil {
		return
	}

	build[FeatureIsDev] = cfg.DevMode
	build[FeatureIsDebug] = cfg.LogLevel == "debug"
	build[FeatureDevTools] = cfg.DevMode

	build[FeatureHydratedAttribute] = false
	build[FeatureHydratedClass] = false
	if cfg.HydratedFlag != nil {
		if cfg.HydratedFlag.Selector == "attribute" {
			build[FeatureHydratedAttribute] = true
		} else {
			build[FeatureHydratedClass] = true
		}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Extras)) {
		build[name] = cfg.Extras[name]
	}

	if cfg.FeatureHook != nil {
		cfg.FeatureHook(build)
	}
}
