package metadata

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/3-lines-studio/bifrost-elements/internal/adapters/fs"
	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

// ReadComponents loads the component descriptors produced by the metadata
// compiler. The format follows the extension: .msgpack for the binary form,
// JSON otherwise. Relative source paths are resolved against root.
func ReadComponents(files fs.FileSystem, path, root string) ([]core.ComponentDescriptor, error) {
	data, err := files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read component manifest: %w", err)
	}

	var manifest *core.ComponentManifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		manifest, err = decodeMsgpack(data)
	default:
		manifest, err = core.ParseComponentManifest(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse component manifest %s: %w", path, err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	cmps := manifest.Components
	for i := range cmps {
		if !filepath.IsAbs(cmps[i].SourceFilePath) {
			cmps[i].SourceFilePath = filepath.Join(root, cmps[i].SourceFilePath)
		}
		cmps[i].SourceFilePath = filepath.ToSlash(cmps[i].SourceFilePath)
	}
	return cmps, nil
}

func decodeMsgpack(data []byte) (*core.ComponentManifest, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")

	var m core.ComponentManifest
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// EncodeMsgpack writes descriptors in the binary manifest form.
func EncodeMsgpack(cmps []core.ComponentDescriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(core.ComponentManifest{Components: cmps}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
