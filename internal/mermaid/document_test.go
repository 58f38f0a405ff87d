package mermaid

import (
	"strings"
	"testing"
)

func TestRepairDocumentWithoutDiagram(t *testing.T) {
	doc := "## PRIMARY Technology Stack\n### Frontend\n**React** - x\n"
	out, reports := NewValidator(nil).RepairDocument(doc)
	if out != doc {
		t.Fatalf("expected passthrough, got %q", out)
	}
	if len(reports) != 0 {
		t.Fatalf("expected no reports, got %d", len(reports))
	}
	if got := ExtractFirst(doc); got != "" {
		t.Fatalf("expected empty diagram, got %q", got)
	}
}

func TestRepairDocumentKeepsValidDiagram(t *testing.T) {
	doc := "intro\n```mermaid\n" + minimalDiagram + "\n```\noutro"
	if got := RepairDocument(doc); got != doc {
		t.Fatalf("expected valid diagram to be untouched, got %q", got)
	}
}

func TestRepairDocumentReplacesInvalidDiagram(t *testing.T) {
	doc := "## Architecture Diagram\n```mermaid\ngraph TD\nA[a]\nB[b]\n```\n## PRIMARY Technology Stack\n"
	got := RepairDocument(doc)

	want := "## Architecture Diagram\n```\n" + FailureNotice + "\nReason: No valid connections found\n```\n## PRIMARY Technology Stack\n"
	if got != want {
		t.Fatalf("RepairDocument = %q, want %q", got, want)
	}
}

func TestRepairDocumentEvaluatesEachBlock(t *testing.T) {
	invalid := "```mermaid\nflowchart LR\nA[a] --> B[b]\n```"
	valid := "```mermaid\n" + minimalDiagram + "\n```"
	doc := invalid + "\ntext\n" + valid

	out, reports := NewValidator(nil).RepairDocument(doc)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Valid || reports[0].Reason != "Must start with 'graph TD'" {
		t.Fatalf("unexpected first report: %+v", reports[0])
	}
	if !reports[1].Valid || reports[1].Reason != "" {
		t.Fatalf("unexpected second report: %+v", reports[1])
	}
	if strings.Contains(out, "flowchart LR") {
		t.Fatalf("expected invalid block to be replaced, got %q", out)
	}
	if !strings.HasSuffix(out, valid) {
		t.Fatalf("expected valid block to remain, got %q", out)
	}
}

func TestExtractFirstReturnsRawBlock(t *testing.T) {
	raw := "graph TD\n    Client[Web Client]\n    Client -->|Calls| API"
	doc := "```mermaid\n" + raw + "\n```\n```mermaid\n" + minimalDiagram + "\n```"
	if got := ExtractFirst(doc); got != raw {
		t.Fatalf("ExtractFirst = %q, want %q", got, raw)
	}
}
