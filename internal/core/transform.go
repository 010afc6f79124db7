package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Module is a unit of source passed through transforms.
type Module struct {
	Path string
	Code string
}

// Transform rewrites a module, returning it unchanged when it does not apply.
type Transform interface {
	Name() string
	Transform(mod Module) (Module, error)
}

// ApplyTransforms runs the transforms in order, feeding each the previous output.
func ApplyTransforms(mod Module, transforms []Transform) (Module, error) {
	for _, t := range transforms {
		next, err := t.Transform(mod)
		if err != nil {
			return mod, fmt.Errorf("transform %s failed on %s: %w", t.Name(), mod.Path, err)
		}
		mod = next
	}
	return mod, nil
}

type ProxyMode string

const (
	ProxyNone           ProxyMode = ""
	ProxyDefineProperty ProxyMode = "defineproperty"
)

type StyleMode string

const (
	StyleNone   StyleMode = ""
	StyleStatic StyleMode = "static"
)

type TransformOptions struct {
	CoreImportPath    string
	ComponentExport   string
	ComponentMetadata string
	Proxy             ProxyMode
	Style             StyleMode
}

var (
	ErrProxyInClassTransform      = errors.New("proxy wrapping is applied by the entry point and cannot be enabled in the class transform")
	ErrUnsupportedTransformOption = errors.New("unsupported transform option")
)

// CustomElementsTransformOptions is the fixed configuration of the class transform
// for the custom elements bundle.
func CustomElementsTransformOptions() TransformOptions {
	return TransformOptions{
		CoreImportPath:    InternalClientID,
		ComponentExport:   "",
		ComponentMetadata: "",
		Proxy:             ProxyNone,
		Style:             StyleStatic,
	}
}

// CustomElementsTransforms returns the ordered transforms run while bundling.
func CustomElementsTransforms(cmps []ComponentDescriptor) ([]Transform, error) {
	opts := CustomElementsTransformOptions()
	native, err := NewNativeComponentTransform(cmps, opts)
	if err != nil {
		return nil, err
	}
	return []Transform{
		CoreImportTransform(opts.CoreImportPath),
		native,
	}, nil
}

var coreImportRe = regexp.MustCompile(`(\bfrom\s*|\bimport\s*\(?\s*)(['"])` + regexp.QuoteMeta(PublicCoreID) + `(['"])`)

type coreImportTransform struct {
	target string
}

// CoreImportTransform points imports of the public core package at target.
func CoreImportTransform(target string) Transform {
	return coreImportTransform{target: target}
}

func (t coreImportTransform) Name() string { return "update-core-imports" }

func (t coreImportTransform) Transform(mod Module) (Module, error) {
	if !strings.Contains(mod.Code, PublicCoreID) {
		return mod, nil
	}
	mod.Code = coreImportRe.ReplaceAllString(mod.Code, "${1}${2}"+t.target+"${3}")
	return mod, nil
}

type nativeComponentTransform struct {
	opts       TransformOptions
	components map[string]ComponentDescriptor
}

// NewNativeComponentTransform rewrites managed component classes into native
// custom element classes.
func NewNativeComponentTransform(cmps []ComponentDescriptor, opts TransformOptions) (Transform, error) {
	if opts.Proxy != ProxyNone {
		return nil, ErrProxyInClassTransform
	}
	if opts.ComponentExport != "" {
		return nil, fmt.Errorf("%w: component export %q", ErrUnsupportedTransformOption, opts.ComponentExport)
	}
	if opts.ComponentMetadata != "" {
		return nil, fmt.Errorf("%w: component metadata %q", ErrUnsupportedTransformOption, opts.ComponentMetadata)
	}
	if opts.CoreImportPath == "" {
		opts.CoreImportPath = InternalClientID
	}

	t := &nativeComponentTransform{
		opts:       opts,
		components: make(map[string]ComponentDescriptor),
	}
	for _, cmp := range ManagedComponents(cmps) {
		t.components[moduleKey(cmp.SourceFilePath)] = cmp
	}
	return t, nil
}

func moduleKey(path string) string {
	path = filepath.Clean(filepath.FromSlash(path))
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func (t *nativeComponentTransform) Name() string { return "native-component" }

func (t *nativeComponentTransform) Transform(mod Module) (Module, error) {
	cmp, ok := t.components[moduleKey(mod.Path)]
	if !ok {
		return mod, nil
	}

	classRe := regexp.MustCompile(`(export\s+)?class\s+` + regexp.QuoteMeta(cmp.ClassName) + `\b(\s+extends\s+[\w.$]+)?\s*\{`)
	loc := classRe.FindStringSubmatchIndex(mod.Code)
	if loc == nil {
		return mod, fmt.Errorf("class %s of <%s> not found", cmp.ClassName, cmp.TagName)
	}
	end := matchingBracket(mod.Code, loc[1]-1)
	if end < 0 {
		return mod, fmt.Errorf("class %s of <%s> is not terminated", cmp.ClassName, cmp.TagName)
	}

	exportKw := ""
	if loc[2] >= 0 {
		exportKw = "export "
	}
	hadHeritage := loc[4] >= 0
	head := mod.Code[:loc[0]]
	body := mod.Code[loc[1]:end]
	tail := mod.Code[end:]

	if ctorOpen, ctorEnd, ok := findConstructor(body); ok {
		ctorBody := body[ctorOpen+1 : ctorEnd]
		if hadHeritage {
			ctorBody = removeSuperCall(ctorBody)
		}
		body = body[:ctorOpen+1] + "\n    super();\n    __registerHost(this);" + ctorBody + body[ctorEnd:]
	} else {
		body = "\n  constructor() {\n    super();\n    __registerHost(this);\n  }" + body
	}

	if t.opts.Style == StyleStatic && cmp.Styles != "" {
		style, err := json.Marshal(cmp.Styles)
		if err != nil {
			return mod, err
		}
		body = "\n  static get style() { return " + string(style) + "; }" + body
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "import { HTMLElement, registerHost as __registerHost } from '%s';\n", t.opts.CoreImportPath)
	sb.WriteString(head)
	fmt.Fprintf(&sb, "%sclass %s extends HTMLElement {", exportKw, cmp.ClassName)
	sb.WriteString(body)
	sb.WriteString(tail)

	mod.Code = sb.String()
	return mod, nil
}
