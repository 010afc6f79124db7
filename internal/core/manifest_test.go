package core

import (
	"strings"
	"testing"
)

func TestValidateTagName(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr bool
	}{
		{"my-button", false},
		{"x-a1", false},
		{"ion-nav-link", false},
		{"", true},
		{"button", true},
		{"My-Button", true},
		{"1-button", true},
		{"my-", true},
		{"my_button-x", true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			err := ValidateTagName(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTagName(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
		})
	}
}

func TestParseComponentManifest(t *testing.T) {
	data := []byte(`{
  "components": [
    {
      "tagName": "my-button",
      "componentClassName": "MyButton",
      "sourceFilePath": "src/my-button.tsx",
      "encapsulation": "shadow",
      "properties": [{"name": "label", "attribute": "label", "type": "string"}],
      "listeners": [{"name": "click", "method": "onClick"}]
    },
    {
      "tagName": "plain-card",
      "componentClassName": "PlainCard",
      "sourceFilePath": "src/plain-card.js",
      "isPlain": true
    }
  ]
}`)

	m, err := ParseComponentManifest(data)
	if err != nil {
		t.Fatalf("ParseComponentManifest() error = %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(m.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(m.Components))
	}

	btn := m.Components[0]
	if btn.ClassName != "MyButton" || btn.Encapsulation != EncapsulationShadow {
		t.Errorf("unexpected descriptor %+v", btn)
	}
	if len(btn.Properties) != 1 || btn.Properties[0].Type != PropTypeString {
		t.Errorf("properties = %+v", btn.Properties)
	}
	if !m.Components[1].IsPlain {
		t.Error("expected plain-card to be plain")
	}
}

func TestComponentManifestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmps    []ComponentDescriptor
		wantErr string
	}{
		{
			name: "duplicate tag",
			cmps: []ComponentDescriptor{
				{TagName: "my-a", ClassName: "A", SourceFilePath: "a.ts"},
				{TagName: "my-a", ClassName: "B", SourceFilePath: "b.ts"},
			},
			wantErr: "duplicate",
		},
		{
			name:    "missing class",
			cmps:    []ComponentDescriptor{{TagName: "my-a", SourceFilePath: "a.ts"}},
			wantErr: "class name",
		},
		{
			name:    "missing source",
			cmps:    []ComponentDescriptor{{TagName: "my-a", ClassName: "A"}},
			wantErr: "source file",
		},
		{
			name:    "invalid tag",
			cmps:    []ComponentDescriptor{{TagName: "mya", ClassName: "A", SourceFilePath: "a.ts"}},
			wantErr: "dash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &ComponentManifest{Components: tt.cmps}
			err := m.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
