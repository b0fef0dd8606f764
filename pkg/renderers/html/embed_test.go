package html

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "lazyform.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".lazyform-pending") {
		t.Fatalf("expected stylesheet to style pending markers")
	}
}

func TestTemplatesFSContainsFormAndField(t *testing.T) {
	for _, name := range []string{"form.tpl", "field.tpl"} {
		if _, err := fs.ReadFile(TemplatesFS(), name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}
