package rules

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"claimsql/internal/errors"
)

// ColumnDoc is the documentation snippet for one column, used to ground the
// prompt against the criteria.
type ColumnDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// TableSpec is the per-table projection, join, and documentation
// configuration.
type TableSpec struct {
	Name          string      `yaml:"name"`
	SelectColumns []string    `yaml:"select_columns"`
	JoinColumns   []string    `yaml:"join_columns"`
	Columns       []ColumnDoc `yaml:"columns"`
}

// TablesConfig lists the warehouse tables in projection order.
type TablesConfig struct {
	Tables []TableSpec `yaml:"tables"`
}

// ReplaceMapping derives a new column from a source column via a value map.
type ReplaceMapping struct {
	NewColumnName string            `yaml:"new_column_name"`
	Mapping       map[string]string `yaml:"mapping"`
}

// LookupConfig holds the report-shaping configuration: columns excluded per
// report type and value replace-mappings producing derived columns.
type LookupConfig struct {
	ExcludeColumns  map[string][]string       `yaml:"exclude_columns"`
	ReplaceMappings map[string]ReplaceMapping `yaml:"replace_mappings"`
}

// LoadTables reads the per-table select/join column configuration.
func LoadTables(path string) (*TablesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigError, errors.Wrapf(err, "failed to read tables config %s", path))
	}
	var cfg TablesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigError, errors.Wrapf(err, "failed to parse tables config %s", path))
	}
	if len(cfg.Tables) == 0 {
		return nil, errors.ConfigError("tables config defines no tables")
	}
	for _, t := range cfg.Tables {
		if strings.TrimSpace(t.Name) == "" {
			return nil, errors.ConfigError("tables config contains a table with no name")
		}
	}
	return &cfg, nil
}

// LoadLookup reads the report-shaping lookup configuration.
func LoadLookup(path string) (*LookupConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigError, errors.Wrapf(err, "failed to read lookup config %s", path))
	}
	var cfg LookupConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigError, errors.Wrapf(err, "failed to parse lookup config %s", path))
	}
	if cfg.ExcludeColumns == nil {
		cfg.ExcludeColumns = map[string][]string{}
	}
	if cfg.ReplaceMappings == nil {
		cfg.ReplaceMappings = map[string]ReplaceMapping{}
	}
	return &cfg, nil
}

// Table returns the spec for a table name, or nil when not configured.
func (c *TablesConfig) Table(name string) *TableSpec {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// ExcludedFor returns the excluded columns for a report type. Lookup is
// case-insensitive on the report type.
func (c *LookupConfig) ExcludedFor(reportType string) []string {
	return c.ExcludeColumns[strings.ToLower(reportType)]
}
