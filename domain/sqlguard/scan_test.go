package sqlguard

import (
	"testing"

	"claimsql/domain/rules"
)

var restricted = rules.NewCatalog().RestrictedOperations

func TestFindRestrictedOperation_DetectsKeywords(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"DROP TABLE CLM_WGS_GNCCLMP_CMPCT", "DROP"},
		{"select 1; delete from x", "DELETE"},
		{"TRUNCATE TABLE t", "TRUNCATE"},
		{"SELECT * FROM t WHERE 1=1; update t set a=1", "UPDATE"},
	}
	for _, tc := range cases {
		op, found := FindRestrictedOperation(tc.sql, restricted)
		if !found || op != tc.want {
			t.Errorf("FindRestrictedOperation(%q) = %q,%v; want %q", tc.sql, op, found, tc.want)
		}
	}
}

func TestFindRestrictedOperation_IgnoresNonKeywordContexts(t *testing.T) {
	cases := []string{
		// Keyword embedded in an identifier is one token.
		"SELECT DROP_RATE FROM metrics",
		"SELECT CREATED_DATE FROM sessions",
		// Keywords inside string literals.
		"SELECT * FROM t WHERE note = 'please DROP this'",
		"SELECT * FROM t WHERE note = 'it''s a DELETE marker'",
		// Keywords inside quoted identifiers.
		`SELECT "DROP" FROM t`,
		// Keywords inside comments.
		"SELECT 1 -- DROP TABLE t\nFROM dual",
		"SELECT 1 /* TRUNCATE t */ FROM dual",
	}
	for _, sql := range cases {
		if op, found := FindRestrictedOperation(sql, restricted); found {
			t.Errorf("FindRestrictedOperation(%q) wrongly found %q", sql, op)
		}
	}
}

func TestFindRestrictedOperation_CaseInsensitive(t *testing.T) {
	if op, found := FindRestrictedOperation("dRoP table t", restricted); !found || op != "DROP" {
		t.Fatalf("got %q,%v", op, found)
	}
}

func TestContainsRestrictedOperations(t *testing.T) {
	if ContainsRestrictedOperations("SELECT 1", restricted) {
		t.Fatal("plain select flagged")
	}
	if !ContainsRestrictedOperations("INSERT INTO t VALUES (1)", restricted) {
		t.Fatal("insert not flagged")
	}
}
