package rules

import "fmt"

// MatchStrategy describes how a rule's columns are matched against a value.
type MatchStrategy string

const (
	// MatchExact matches a single column against a literal value set.
	MatchExact MatchStrategy = "exact"
	// MatchAnyColumn matches when any column of the group holds the value.
	MatchAnyColumn MatchStrategy = "any-column"
	// MatchConcat matches against the concatenation of the group's columns.
	MatchConcat MatchStrategy = "concat"
)

// RuleEntry maps a semantic concept to its physical column group and matching
// strategy. Column groups are fixed-cardinality and must always be referenced
// as a whole, never partially.
type RuleEntry struct {
	Concept  string
	Columns  []string
	Strategy MatchStrategy
}

// ClaimTypeRule maps a claim-category label to its DDC_CD_CLM_TYPE code set.
type ClaimTypeRule struct {
	Label string
	Codes []string
}

// TableAlias pairs a physical table name with its mandatory alias.
type TableAlias struct {
	Table string
	Alias string
}

// PrefixAlias maps a column-name prefix to the table alias used to qualify it.
type PrefixAlias struct {
	Prefix string
	Alias  string
}

// KeywordMapping maps a request-criteria keyword to its database column(s).
type KeywordMapping struct {
	Keyword string
	Columns []string
}

// Well-known column names shared by the sanitizer and the post-processor.
const (
	ClaimNumberColumn    = "GNCHIIOS_HCLM_DCN"
	SequenceColumn       = "GNCHIIOS_HCLM_SEQ_NBR"
	ItemCodeColumn       = "GNCHIIOS_HCLM_ITEM_CDE"
	PayActionFirstColumn = "DDC_CD_CLM_PAY_ACT_1"
	PayActionRestColumn  = "DDC_CD_CLM_PAY_ACT_2_6"
	PayActionColumn      = "DDC_CD_CLM_PAY_ACT"
	AdjudMethodColumn    = "DDC_CD_HOW_ADJUD_CDE"
	ITSHomeIndColumn     = "DDC_CD_ITS_HOME_IND"
	ProviderIndColumn    = "DDC_CD_PRVDR_IND"
	ParKeyedIndColumn    = "DDC_CD_PAR_KEYED_IND"
	MxParIndColumn       = "DDC_CD_MX_PAR_IND"
	LimitPointerColumn   = "DDC_DTL_ICDA_PNTR_1"
	HCIDColumn           = "DDC_CD_HCID"
	LimitClassPrefix     = "DDC_CD_LMT_CLS_CDE"
)

// Derived report columns.
const (
	AdjudicateModeColumn = "ADJUDICATE_MODE"
	ProviderStatusColumn = "PRVDR_STATUS"
)

// Adjudication and item-code markers.
const (
	AutoAdjudicationCode = "A"
	OriginalItemCode     = "80"
	AdjustedItemCode     = "84"
	DeletionMarker       = "DEL"
)

// DetokenizeFunction is the warehouse-side function that reverses tokenized
// member identifiers for display.
const DetokenizeFunction = "P01_PROTEGRITY.SCRTY_ACS_CNTRL.ANTM_MBR_IDENTIFIERS_DETOK"

// PrimaryTable is the claim header table every generated query is anchored on.
const (
	PrimaryTable      = "CLM_WGS_GNCCLMP_CMPCT"
	PrimaryTableAlias = "CLM"
)

// Catalog is the immutable business-rule table consumed by the prompt
// assembler and the result post-processor. Build one with NewCatalog and
// share it read-only across requests.
type Catalog struct {
	ClaimTypes []ClaimTypeRule

	ErrorCodes     RuleEntry
	LimitClasses   RuleEntry
	Modifiers      RuleEntry
	ICDCodes       RuleEntry
	ServiceClasses RuleEntry
	ITSMessages    RuleEntry
	ProcedureCodes RuleEntry
	RejectConcat   RuleEntry

	// PAR / NON-PAR provider-status allow-lists.
	HomeParIndicators    []string
	HomeNonParIndicators []string
	ParKeyedIndicators   []string
	MxParIndicators      []string
	NonParKeyed          []string
	NonParMx             []string

	RequiredTables []string
	TableAliases   []TableAlias
	PrefixAliases  []PrefixAlias

	KeywordMappings []KeywordMapping

	RestrictedOperations []string
}

// NewCatalog builds the fixed rule catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		ClaimTypes: []ClaimTypeRule{
			{Label: "Professional", Codes: []string{"PA", "PM", "PC", "MA", "MM"}},
			{Label: "Inpatient(IP)", Codes: []string{"IA", "IC", "ID"}},
			{Label: "Outpatient(OP)", Codes: []string{"OA", "OC", "OD"}},
			{Label: "Skilled Nurse Facility(SNF)", Codes: []string{"SA", "SC"}},
			{Label: "Member Claim", Codes: []string{"MA", "MM"}},
			{Label: "Facility", Codes: []string{"IA", "IC", "ID", "SA", "SC"}},
			{Label: "Hospital", Codes: []string{"IA", "IC", "ID", "SA", "SC", "OA", "OC", "OD"}},
		},

		ErrorCodes: RuleEntry{
			Concept:  "error code",
			Columns:  numberedColumns("DDC_CD_ERR_CDE_%d", 32),
			Strategy: MatchAnyColumn,
		},
		LimitClasses: RuleEntry{
			Concept:  "limit class code",
			Columns:  limitClassColumns(),
			Strategy: MatchAnyColumn,
		},
		Modifiers: RuleEntry{
			Concept: "modifier code",
			Columns: []string{
				"DDC_DTL_MOD_CDE_1", "DDC_DTL_MOD_CDE_2", "DDC_DTL_MOD_CDE_3",
				"DDC_DTL_PCODEC_HCPCS_MOD", "DDC_DTL_PRCDR_MODFR_CDE", "DDC_DTL_MEDI_MODFR_CDE",
			},
			Strategy: MatchAnyColumn,
		},
		ICDCodes: RuleEntry{
			Concept:  "diagnosis code",
			Columns:  numberedColumns("DDC_CD_ICDA_CDE_%d", 5),
			Strategy: MatchAnyColumn,
		},
		ServiceClasses: RuleEntry{
			Concept:  "service class code",
			Columns:  numberedColumns("DDC_DTL_PROC_SVC_CLS_%d", 3),
			Strategy: MatchAnyColumn,
		},
		ITSMessages: RuleEntry{
			Concept:  "ITS message code",
			Columns:  numberedColumns("DDC_CD_ITS_MSG_CDE_%d", 5),
			Strategy: MatchAnyColumn,
		},
		ProcedureCodes: RuleEntry{
			Concept:  "procedure code",
			Columns:  []string{"DDC_DTL_PRCDR_CDE", "DDC_DTL_PCODEC_HCPCS_CDE"},
			Strategy: MatchAnyColumn,
		},
		RejectConcat: RuleEntry{
			Concept:  "reject code",
			Columns:  []string{PayActionFirstColumn, PayActionRestColumn},
			Strategy: MatchConcat,
		},

		HomeParIndicators: []string{
			"A", "B", "C", "H", "I", "K", "M", "Y", "G", "O",
			"P", "Z", "S", "V", "E", "F", "R", "T", "U", "W",
		},
		HomeNonParIndicators: []string{"N", "D", "L"},
		ParKeyedIndicators:   []string{"P", "Y"},
		MxParIndicators:      []string{"Y", "E", "T", "F", "U", "2", "1"},
		NonParKeyed:          []string{"N"},
		NonParMx:             []string{"N", "D"},

		RequiredTables: []string{
			"CLM_WGS_GNCCLMP_CMPCT",
			"CLM_WGS_GNCDTLP_CMPCT",
			"CLM_WGS_GNCNATP_EA1_CMPCT",
			"CLM_WGS_GNCNATP_EA2_CMPCT",
			"CLM_WGS_GNCNATP_EA3_CMPCT",
		},
		TableAliases: []TableAlias{
			{Table: "CLM_WGS_GNCCLMP_CMPCT", Alias: "CLM"},
			{Table: "CLM_WGS_GNCDTLP_CMPCT", Alias: "DTL"},
			{Table: "CLM_WGS_GNCNATP_E00_CMPCT", Alias: "E00"},
			{Table: "CLM_WGS_GNCNATP_EA1_CMPCT", Alias: "EA1"},
			{Table: "CLM_WGS_GNCNATP_EA2_CMPCT", Alias: "EA2"},
			{Table: "CLM_WGS_GNCNATP_EA3_CMPCT", Alias: "EA3"},
			{Table: "CLM_WGS_GNCEOBP_CMPCT", Alias: "EOB"},
		},
		PrefixAliases: []PrefixAlias{
			{Prefix: "DDC_CD", Alias: "CLM"},
			{Prefix: "DDC_DTL", Alias: "DTL"},
			{Prefix: "DDC_NAT_EA1", Alias: "EA1"},
			{Prefix: "DDC_NAT_EA2", Alias: "EA2"},
			{Prefix: "DDC_NAT_EA3", Alias: "EA3"},
		},

		KeywordMappings: []KeywordMapping{
			{Keyword: "ProcedureCode", Columns: []string{"DDC_DTL_PRCDR_CDE", "DDC_DTL_PCODEC_HCPCS_CDE"}},
			{Keyword: "PlacofService", Columns: []string{"DDC_DTL_HCFA_PT_CDE"}},
			{Keyword: "TOS_Type_CD", Columns: []string{"DDC_DTL_SVC_CDE_1_3"}},
			{Keyword: "TAXID", Columns: []string{"DDC_CD_PRVDR_TAX_ID"}},
			{Keyword: "MEMBER_CONTRACT_CODE", Columns: []string{"DDC_DTL_MBR_CONTR_CDE"}},
			{Keyword: "CoInsAmt", Columns: []string{"DDC_CD_TOT_MM_COINS_AMT"}},
			{Keyword: "CoPayAmt", Columns: []string{"DDC_CD_COPAY_AMT"}},
			{Keyword: "DEDUCTIBLE_AMOUNT", Columns: []string{"DDC_CD_TOT_DEDUCT_AMT"}},
			{Keyword: "Line Copay Amnt", Columns: []string{"DDC_DTL_BASIC_COPMT_AMT"}},
			{Keyword: "EOB Code", Columns: []string{"DDC_EOB_CDE"}},
			{Keyword: "BILLGNPI", Columns: []string{"DDC_NAT_EA2_BLNG_NPI"}},
			{Keyword: "REFERRINGNPI", Columns: []string{"DDC_NAT_EA2_REF_PHYS_NPI"}},
			{Keyword: "RENDERINGNPI", Columns: []string{"DDC_NAT_EA2_RNDR_NPI"}},
			{Keyword: "CaseNumber", Columns: []string{"DDC_CD_CASE_NBR"}},
			{Keyword: "PRVDR_SPCLTY_CDE", Columns: []string{"DDC_CD_PRVDR_SPCLTY_CDE"}},
			{Keyword: "lmt_cd", Columns: limitClassColumns()},
		},

		RestrictedOperations: []string{
			"INSERT", "UPDATE", "DELETE", "DROP", "ALTER",
			"CREATE", "REPLACE", "TRUNCATE", "RENAME",
		},
	}
}

// AliasFor returns the alias for a physical table name, or "" when unknown.
func (c *Catalog) AliasFor(table string) string {
	for _, ta := range c.TableAliases {
		if ta.Table == table {
			return ta.Alias
		}
	}
	return ""
}

// ProviderStatus derives PAR / NON-PAR from the provider indicator columns.
// Unmatched combinations default to NON-PAR.
func (c *Catalog) ProviderStatus(homeInd, providerInd, parKeyed, mxPar string) string {
	if homeInd == "Y" {
		if contains(c.HomeParIndicators, providerInd) {
			return "PAR"
		}
		return "NON-PAR"
	}
	if contains(c.ParKeyedIndicators, parKeyed) || contains(c.MxParIndicators, mxPar) {
		return "PAR"
	}
	return "NON-PAR"
}

// LimitClassGroups returns the limit-class columns grouped by pointer value
// (the first numeric suffix, 1..5), each group in occurrence order.
func (c *Catalog) LimitClassGroups() map[int][]string {
	groups := make(map[int][]string, 5)
	for p := 1; p <= 5; p++ {
		for o := 1; o <= 3; o++ {
			groups[p] = append(groups[p], fmt.Sprintf("%s_%d_%d", LimitClassPrefix, p, o))
		}
	}
	return groups
}

func numberedColumns(format string, n int) []string {
	cols := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		cols = append(cols, fmt.Sprintf(format, i))
	}
	return cols
}

func limitClassColumns() []string {
	cols := make([]string, 0, 15)
	for p := 1; p <= 5; p++ {
		for o := 1; o <= 3; o++ {
			cols = append(cols, fmt.Sprintf("%s_%d_%d", LimitClassPrefix, p, o))
		}
	}
	return cols
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
