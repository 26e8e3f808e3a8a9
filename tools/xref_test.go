package tools

import (
	"strings"
	"testing"
)

const xrefProgram = `COPY     START   1000
FIRST    STL     RETADR
         LDA     FIVE
         ADD     FOUR
         JSUB    FIRST
RETADR   RESW    1
FOUR     WORD    4
FIVE     WORD    5
         END     FIRST
`

func TestGenerate_CollectsDefinitionsAndReferences(t *testing.T) {
	symbols := NewXRefGenerator().Generate(xrefProgram)

	retadr, ok := symbols["RETADR"]
	if !ok || retadr.Definition == nil {
		t.Fatalf("expected RETADR to be defined")
	}
	if len(retadr.References) != 1 || retadr.References[0].Type != RefStore {
		t.Errorf("expected one store reference to RETADR, got %+v", retadr.References)
	}

	five, ok := symbols["FIVE"]
	if !ok || len(five.References) != 1 || five.References[0].Type != RefLoad {
		t.Errorf("expected one load reference to FIVE, got %+v", five)
	}
}

func TestGenerate_MarksJSUBTargetAsFunction(t *testing.T) {
	symbols := NewXRefGenerator().Generate(xrefProgram)
	first, ok := symbols["FIRST"]
	if !ok || !first.IsFunction {
		t.Errorf("expected FIRST to be marked a function after a JSUB reference, got %+v", first)
	}
}

func TestGenerate_MarksDataLabels(t *testing.T) {
	symbols := NewXRefGenerator().Generate(xrefProgram)
	four, ok := symbols["FOUR"]
	if !ok || !four.IsDataLabel {
		t.Errorf("expected FOUR (a WORD constant) to be marked a data label, got %+v", four)
	}
}

func TestGetUnusedSymbols_ExcludesReferencedLabels(t *testing.T) {
	gen := NewXRefGenerator()
	gen.Generate(xrefProgram)
	for _, sym := range gen.GetUnusedSymbols() {
		if sym.Name == "RETADR" || sym.Name == "FIVE" || sym.Name == "FOUR" || sym.Name == "FIRST" {
			t.Errorf("expected %s to be referenced, not unused", sym.Name)
		}
	}
}

func TestXRefReport_String_ListsEverySymbol(t *testing.T) {
	report := GenerateXRef(xrefProgram)
	for _, name := range []string{"FIRST", "RETADR", "FOUR", "FIVE"} {
		if !strings.Contains(report, name) {
			t.Errorf("expected report to mention %s, got:\n%s", name, report)
		}
	}
}
