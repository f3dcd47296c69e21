package markdown

import (
	"strings"
	"testing"
)

func TestRenderString(t *testing.T) {
	p := NewParser()

	out, err := p.RenderString("**Sunset** over the bay\nsecond line")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<strong>Sunset</strong>") {
		t.Errorf("missing emphasis: %s", out)
	}
	if !strings.Contains(out, "<br />") {
		t.Errorf("expected hard wrap: %s", out)
	}
}

func TestRenderStringDropsRawHTML(t *testing.T) {
	out, err := NewParser().RenderString(`<script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw html leaked: %s", out)
	}
}
