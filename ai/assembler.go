package ai

import (
	"fmt"
	"strings"

	"claimsql/domain/rules"
)

// PromptAssembler combines retrieved schema documentation, join metadata and
// the rule catalog into a single rule-constrained generation prompt.
type PromptAssembler struct {
	catalog *rules.Catalog
	tables  *rules.TablesConfig
}

// NewPromptAssembler creates an assembler over the shared catalog and table
// configuration.
func NewPromptAssembler(catalog *rules.Catalog, tables *rules.TablesConfig) *PromptAssembler {
	return &PromptAssembler{catalog: catalog, tables: tables}
}

// Build renders the generation prompt. Retrieved docs are concatenated as
// bullets in retrieval order; nothing is filtered or re-ranked here.
func (a *PromptAssembler) Build(docs []string, question string) string {
	var tableInfo strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&tableInfo, "\n- %s", doc)
	}

	var joinColumns strings.Builder
	for _, t := range a.tables.Tables {
		fmt.Fprintf(&joinColumns, "\n### %s:\n%s\n", t.Name, strings.Join(t.JoinColumns, ", "))
	}

	replacements := map[string]string{
		"{USER_QUESTION}":         question,
		"{TABLE_INFO}":            strings.TrimSpace(tableInfo.String()),
		"{JOIN_COLUMNS}":          strings.TrimSpace(joinColumns.String()),
		"{CRITERIA_RULES}":        a.renderCriteriaRules(),
		"{KEYWORD_MAPPINGS}":      a.renderKeywordMappings(),
		"{REQUIRED_TABLES}":       a.renderRequiredTables(),
		"{TABLE_ALIASES}":         a.renderTableAliases(),
		"{PREFIX_RULES}":          a.renderPrefixRules(),
		"{PROHIBITED_OPERATIONS}": strings.Join(a.catalog.RestrictedOperations, ", "),
	}

	prompt := generationTemplate
	for placeholder, value := range replacements {
		prompt = strings.ReplaceAll(prompt, placeholder, value)
	}
	return strings.TrimSpace(prompt)
}

func (a *PromptAssembler) renderCriteriaRules() string {
	c := a.catalog
	var b strings.Builder

	// a. claim types
	b.WriteString("    a. To identify the claims type\n")
	for _, ct := range c.ClaimTypes {
		fmt.Fprintf(&b, "        %s : DDC_CD_CLM_TYPE IN (%s)\n", ct.Label, quoteList(ct.Codes))
	}
	b.WriteString("        Strict Rule: these are criterias do not add any other values other than what is mentioned over here. This will pull incorrect data.\n\n")

	// b. original vs adjusted
	fmt.Fprintf(&b, "    b. To identify if the claims is original or Adjusted claims\n")
	fmt.Fprintf(&b, "        Original Claims : %s = '%s'\n", rules.ItemCodeColumn, rules.OriginalItemCode)
	fmt.Fprintf(&b, "        Adjusted Claims : %s = '%s'\n\n", rules.ItemCodeColumn, rules.AdjustedItemCode)

	// c. adjudication mode
	fmt.Fprintf(&b, "    c. To identify if the claim is Adjudicated Manually or System\n")
	fmt.Fprintf(&b, "        Manual : %s != '%s'\n", rules.AdjudMethodColumn, rules.AutoAdjudicationCode)
	fmt.Fprintf(&b, "        System/Auto Adjudicated : %s = '%s'\n\n", rules.AdjudMethodColumn, rules.AutoAdjudicationCode)

	// d. paid vs rejected
	fmt.Fprintf(&b, "    d. To identify if the claim is Rejected or paid(Approved)\n")
	fmt.Fprintf(&b, "        Rejected : %s = 'R'\n", rules.PayActionFirstColumn)
	fmt.Fprintf(&b, "        Paid(Approved) : %s IN ('P','D')\n", rules.PayActionFirstColumn)
	fmt.Fprintf(&b, "        Deductable : %s = 'D'\n", rules.PayActionFirstColumn)
	fmt.Fprintf(&b, "        Paid(Approved) and Rejected : %s IN ('P','D','R')\n\n", rules.PayActionFirstColumn)

	// e. reject code concatenation
	fmt.Fprintf(&b, "    e. To identify if the claim is rejected with specific reject code (payment action code) use the concatenation field. Reject code always starts with letter \"R\".\n")
	fmt.Fprintf(&b, "        Condition : %s || %s\n", rules.PayActionFirstColumn, rules.PayActionRestColumn)
	fmt.Fprintf(&b, "        E.g: Reject code or Action Code : R01030, RDUP00 then\n")
	fmt.Fprintf(&b, "        %s || %s IN (\"R01030\",\"RDUP00\")\n\n", rules.PayActionFirstColumn, rules.PayActionRestColumn)

	// f. date of service formatting
	b.WriteString("    f. If the user question contains Date of service (DOS) which means DDC_DTL_SVC_FROM_DTE and DDC_DTL_SVC_THRU_DTE, convert the dates to the below format in the sql query.\n")
	b.WriteString("        Date Format : YYYYMMDD\n")
	b.WriteString("        Data Type : INT\n")
	b.WriteString("        E.g:\n")
	b.WriteString("        DOS : 1/1/2023 - 6/30/24 then\n")
	b.WriteString("        ((DDC_DTL_SVC_FROM_DTE between 20230101 AND 20240630) OR (DDC_DTL_SVC_THRU_DTE between 20230101 AND 20240630))\n")
	b.WriteString("        - Do not do any typecast for this date fields.\n\n")

	// g. error codes
	fmt.Fprintf(&b, "    g. If the user question contains Edit or Error codes, ensure that the SQL query always includes all %d error code columns, from %s to %s, even if the given prompt does not mention all of them.\n",
		len(c.ErrorCodes.Columns), c.ErrorCodes.Columns[0], c.ErrorCodes.Columns[len(c.ErrorCodes.Columns)-1])
	fmt.Fprintf(&b, "        E.g: Edit: BA1 then\n")
	fmt.Fprintf(&b, "        - Error code BA1 in any of the %d error code columns.\n", len(c.ErrorCodes.Columns))
	b.WriteString("        - if the query contains all error columns in where clause then do not include another condition for individual columns\n\n")

	// h. limit class codes
	fmt.Fprintf(&b, "    h. If the user question contains limit codes or limit class codes, ensure that the SQL query always includes all %d limit columns:\n", len(c.LimitClasses.Columns))
	fmt.Fprintf(&b, "        %s\n", strings.Join(c.LimitClasses.Columns, ","))
	b.WriteString("        E.g: lmt_cd: AR56,FD1 then limit codes AR56,FD1 should verify in any of the limit class code columns:\n")
	fmt.Fprintf(&b, "        %s IN (\"AR56\",\"FD1\") to %s IN (\"AR56\",\"FD1\")\n", c.LimitClasses.Columns[0], c.LimitClasses.Columns[len(c.LimitClasses.Columns)-1])
	b.WriteString("        - if the query contains all limit class columns in where clause then do not include another condition for individual columns\n")
	b.WriteString("        - use prefix \"CLM\" for these fields\n\n")

	// i. provider status
	b.WriteString("    i. To identify if the provider is PAR (participating) or Non PAR (Non-participating)\n")
	fmt.Fprintf(&b, "        PAR: (%s = 'Y' AND %s IN (%s))\n", rules.ITSHomeIndColumn, rules.ProviderIndColumn, quoteListSingle(c.HomeParIndicators))
	fmt.Fprintf(&b, "            OR (%s != 'Y' AND (%s IN (%s) OR %s IN (%s)))\n", rules.ITSHomeIndColumn, rules.ParKeyedIndColumn, quoteListSingle(c.ParKeyedIndicators), rules.MxParIndColumn, quoteListSingle(c.MxParIndicators))
	fmt.Fprintf(&b, "        NPAR: (%s = 'Y' AND %s IN (%s)) OR (%s != 'Y' AND (%s IN (%s) OR %s IN (%s)))\n\n",
		rules.ITSHomeIndColumn, rules.ProviderIndColumn, quoteListSingle(c.HomeNonParIndicators),
		rules.ITSHomeIndColumn, rules.ParKeyedIndColumn, quoteListSingle(c.NonParKeyed), rules.MxParIndColumn, quoteListSingle(c.NonParMx))

	// j. modifiers
	fmt.Fprintf(&b, "    j. To identify claims with specific modifier code, the modifier values should be verified in any of the below columns:\n")
	fmt.Fprintf(&b, "        %s\n", strings.Join(c.Modifiers.Columns, ", "))
	b.WriteString("        E.g : Modifier code : 45,GQ then each of these columns should verify the values '45','GQ'.\n")
	b.WriteString("        - if criteria contains modifier code multiple times then you have to use all these columns for each criteria\n\n")

	// k. ICD codes
	fmt.Fprintf(&b, "    k. To identify claims for specific diagnosis code or ICD Code, the values should be verified in any of the below columns:\n")
	fmt.Fprintf(&b, "        %s\n\n", strings.Join(c.ICDCodes.Columns, ","))

	// l. service classes
	fmt.Fprintf(&b, "    l. To identify claims with service class code, the values should be verified in any of the below columns:\n")
	fmt.Fprintf(&b, "        %s\n\n", strings.Join(c.ServiceClasses.Columns, ", "))

	// m. ITS message codes
	fmt.Fprintf(&b, "    m. To identify claims for ITS Message (MSG) Code, the values should be verified in any of the below columns:\n")
	fmt.Fprintf(&b, "        %s\n\n", strings.Join(c.ITSMessages.Columns, ","))

	// n. ITS exclusion
	b.WriteString("    n. To identify if the claims is ITS claim then\n")
	b.WriteString("        Exclude_ITS: Host then\n")
	b.WriteString("        - (Substr(DDC_CD_GRP_NBR,1,3) != 'ITS' OR DDC_CD_ITS_IND != 'Y')\n")
	b.WriteString("        Exclude_ITS: Home then\n")
	fmt.Fprintf(&b, "        - (%s != 'Y' AND DDC_CD_ITS_ORIG_SCCF_NBR_NEW = '')\n", rules.ITSHomeIndColumn)
	b.WriteString("        Exclude_ITS: All(Host and Home) then\n")
	fmt.Fprintf(&b, "        - (Substr(DDC_CD_GRP_NBR,1,3) != 'ITS' OR (%s != 'Y' AND DDC_CD_ITS_ORIG_SCCF_NBR_NEW = ''))\n\n", rules.ITSHomeIndColumn)

	// o. HCID detokenization
	b.WriteString("    o. For HCID do not validate the format of the values, just use the values as it is. For HCID use the detokenization function.\n")
	fmt.Fprintf(&b, "        E.g : HC_ID : 756146644,SH0807800 then\n")
	fmt.Fprintf(&b, "        %s(%s) IN ('756146644','SH0807800')\n\n", rules.DetokenizeFunction, rules.HCIDColumn)

	// p. procedure / revenue / hcpc codes
	b.WriteString("    p. To identify claims with specific procedure code or revenue code or hcpc code\n")
	fmt.Fprintf(&b, "        E.g: ProcedureCode: 99123,0164U then\n")
	fmt.Fprintf(&b, "        %s in (\"99123\",\"0164U\") or %s in (\"99123\",\"0164U\")\n", c.ProcedureCodes.Columns[0], c.ProcedureCodes.Columns[1])

	return strings.TrimRight(b.String(), "\n")
}

func (a *PromptAssembler) renderKeywordMappings() string {
	var b strings.Builder
	for _, m := range a.catalog.KeywordMappings {
		fmt.Fprintf(&b, "    # %s : %s\n", m.Keyword, strings.Join(m.Columns, ","))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *PromptAssembler) renderRequiredTables() string {
	var b strings.Builder
	for _, t := range a.catalog.RequiredTables {
		fmt.Fprintf(&b, "    # %s\n", t)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *PromptAssembler) renderTableAliases() string {
	var b strings.Builder
	for _, ta := range a.catalog.TableAliases {
		fmt.Fprintf(&b, "    # %s : %s\n", ta.Table, ta.Alias)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *PromptAssembler) renderPrefixRules() string {
	var b strings.Builder
	for _, pa := range a.catalog.PrefixAliases {
		fmt.Fprintf(&b, "    - If the column name starts with \"%s\", use the prefix \"%s\".\n", pa.Prefix, pa.Alias)
	}
	return strings.TrimRight(b.String(), "\n")
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ",")
}

func quoteListSingle(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ",")
}
