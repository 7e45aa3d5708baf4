package ai

import (
	"strings"
	"testing"

	"claimsql/domain/rules"
)

func testTables() *rules.TablesConfig {
	return &rules.TablesConfig{Tables: []rules.TableSpec{
		{
			Name:          "CLM_WGS_GNCCLMP_CMPCT",
			SelectColumns: []string{"GNCHIIOS_HCLM_DCN", "GNCHIIOS_HCLM_SEQ_NBR"},
			JoinColumns:   []string{"GNCHIIOS_HCLM_DCN", "GNCHIIOS_HCLM_SEQ_NBR"},
		},
		{
			Name:          "CLM_WGS_GNCDTLP_CMPCT",
			SelectColumns: []string{"DDC_DTL_PRCDR_CDE"},
			JoinColumns:   []string{"GNCHIIOS_HCLM_DCN", "GNCHIIOS_HCLM_SEQ_NBR"},
		},
	}}
}

func TestBuild_ContainsQuestionAndDocsInOrder(t *testing.T) {
	a := NewPromptAssembler(rules.NewCatalog(), testTables())

	docs := []string{"DDC_CD_ERR_CDE_1: Error code position 1", "DDC_DTL_PRCDR_CDE: Procedure code"}
	prompt := a.Build(docs, "claim_number : 12345;")

	if !strings.Contains(prompt, "claim_number : 12345;") {
		t.Fatal("question missing from prompt")
	}
	first := strings.Index(prompt, docs[0])
	second := strings.Index(prompt, docs[1])
	if first < 0 || second < 0 || first > second {
		t.Fatalf("docs not rendered in retrieval order: %d %d", first, second)
	}
}

func TestBuild_RendersRuleSections(t *testing.T) {
	a := NewPromptAssembler(rules.NewCatalog(), testTables())
	prompt := a.Build(nil, "pull all rejected claims")

	// Canonical date-of-service example bounds.
	if !strings.Contains(prompt, "20230101") || !strings.Contains(prompt, "20240630") {
		t.Fatal("date of service example bounds missing")
	}
	if !strings.Contains(prompt, "DDC_CD_ERR_CDE_1") || !strings.Contains(prompt, "DDC_CD_ERR_CDE_32") {
		t.Fatal("error code column span missing")
	}
	if !strings.Contains(prompt, rules.DetokenizeFunction) {
		t.Fatal("detokenization function missing")
	}
	if !strings.Contains(prompt, "INSERT, UPDATE, DELETE, DROP, ALTER, CREATE, REPLACE, TRUNCATE, RENAME") {
		t.Fatal("prohibited operations list missing")
	}
	if !strings.Contains(prompt, "<generated_query>") || !strings.Contains(prompt, "<response>") {
		t.Fatal("response wrappers missing")
	}
}

func TestBuild_RendersJoinColumnsPerTable(t *testing.T) {
	a := NewPromptAssembler(rules.NewCatalog(), testTables())
	prompt := a.Build(nil, "q")

	if !strings.Contains(prompt, "### CLM_WGS_GNCDTLP_CMPCT:") {
		t.Fatal("join column section missing for detail table")
	}
}

func TestBuild_NoPlaceholdersLeft(t *testing.T) {
	a := NewPromptAssembler(rules.NewCatalog(), testTables())
	prompt := a.Build([]string{"doc"}, "q")

	for _, placeholder := range []string{
		"{USER_QUESTION}", "{TABLE_INFO}", "{JOIN_COLUMNS}", "{CRITERIA_RULES}",
		"{KEYWORD_MAPPINGS}", "{REQUIRED_TABLES}", "{TABLE_ALIASES}",
		"{PREFIX_RULES}", "{PROHIBITED_OPERATIONS}",
	} {
		if strings.Contains(prompt, placeholder) {
			t.Fatalf("placeholder %s not substituted", placeholder)
		}
	}
}

func TestBuild_MixedParAllowListExcludesX(t *testing.T) {
	a := NewPromptAssembler(rules.NewCatalog(), testTables())
	prompt := a.Build(nil, "q")

	start := strings.Index(prompt, rules.MxParIndColumn+" IN (")
	if start < 0 {
		t.Fatal("mixed participation allow-list missing")
	}
	end := strings.Index(prompt[start:], ")")
	if list := prompt[start : start+end]; strings.Contains(list, "'X'") {
		t.Fatalf("mixed participation allow-list must not include X: %s", list)
	}
}
