package incidents

import (
	"strconv"
	"strings"
)

// Logical column names after normalization
const (
	ColumnYear    = "year"
	ColumnType    = "type"
	ColumnSpecies = "species"
	ColumnAge     = "age"
	ColumnSex     = "sex"
	ColumnFatal   = "fatal"
	ColumnTime    = "time"
	ColumnName    = "name"
)

// columnAliases maps a logical column to the normalized headers it may appear
// under. The first alias present in the source wins.
var columnAliases = map[string][]string{
	ColumnFatal: {"fatal", "fatal (y/n)", "fatal y/n"},
}

// NormalizeHeader trims and lower-cases a raw column label
func NormalizeHeader(label string) string {
	label = strings.TrimPrefix(label, "\ufeff")
	return strings.ToLower(strings.TrimSpace(label))
}

// normalizeHeaders normalizes every label, resolves aliases to their logical
// name and makes the result unique. Empty labels become column_<n>.
func normalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, label := range raw {
		name := NormalizeHeader(label)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		out[i] = name
	}

	for logical, aliases := range columnAliases {
		if indexOf(out, logical) >= 0 {
			continue
		}
		for _, alias := range aliases {
			if idx := indexOf(out, alias); idx >= 0 {
				out[idx] = logical
				break
			}
		}
	}

	for i, name := range out {
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			out[i] = name + "_" + strconv.Itoa(n+1)
			continue
		}
		seen[name] = 1
	}
	return out
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
