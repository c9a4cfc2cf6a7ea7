package incidents

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/go-gota/gota/series"

	"sharkdash/pkg/contracts/domain"
)

// hourPattern takes the first run of digits directly followed by "h"
var hourPattern = regexp.MustCompile(`(\d+)h`)

// ExtractHour returns the hour encoded in a free-text time such as "14h00"
func ExtractHour(s string) (int, bool) {
	m := hourPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return h, true
}

// meanOf averages with gota so every page agrees on the arithmetic
func meanOf(values []float64) float64 {
	return series.Floats(values).Mean()
}

// YearlyCounts counts rows per year, ascending
func YearlyCounts(t *Table) []domain.YearCount {
	counts := make(map[int]int)
	for _, y := range t.yearCells() {
		if y.ok {
			counts[y.year]++
		}
	}

	out := make([]domain.YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, domain.YearCount{Year: year, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// MeanAgeByType averages age per whitelisted attack type, highest mean first.
// Rows with a null age or a type outside AttackTypes are ignored.
func MeanAgeByType(t *Table) []domain.TypeAge {
	types := t.texts(ColumnType)
	ages := t.floats(ColumnAge)

	groups := make(map[string][]float64)
	for i, typ := range types {
		label, ok := AttackTypes.Canonical(typ)
		if !ok || math.IsNaN(ages[i]) {
			continue
		}
		groups[label] = append(groups[label], ages[i])
	}

	out := make([]domain.TypeAge, 0, len(groups))
	for label, vals := range groups {
		out = append(out, domain.TypeAge{Type: label, MeanAge: meanOf(vals), Rows: len(vals)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanAge != out[j].MeanAge {
			return out[i].MeanAge > out[j].MeanAge
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// SpeciesCounts counts rows per whitelisted species in whitelist order.
// Raw spellings are grouped under the canonical label.
func SpeciesCounts(t *Table) []domain.SpeciesCount {
	counts := make(map[string]int)
	for _, s := range t.texts(ColumnSpecies) {
		if label, ok := SpeciesOfInterest.Canonical(s); ok {
			counts[label]++
		}
	}

	out := make([]domain.SpeciesCount, 0, len(counts))
	for _, label := range SpeciesOfInterest.Labels() {
		if n, ok := counts[label]; ok {
			out = append(out, domain.SpeciesCount{Species: label, Count: n})
		}
	}
	return out
}

// MeanAgeBySex averages age per sex value, sorted by sex. Share is each mean
// over the sum of means.
func MeanAgeBySex(t *Table) []domain.SexAge {
	sexes := t.texts(ColumnSex)
	ages := t.floats(ColumnAge)

	groups := make(map[string][]float64)
	for i, sex := range sexes {
		if sex == "" || math.IsNaN(ages[i]) {
			continue
		}
		groups[sex] = append(groups[sex], ages[i])
	}

	out := make([]domain.SexAge, 0, len(groups))
	total := 0.0
	for sex, vals := range groups {
		m := meanOf(vals)
		total += m
		out = append(out, domain.SexAge{Sex: sex, MeanAge: m, Rows: len(vals)})
	}
	if total != 0 {
		for i := range out {
			out[i].Share = out[i].MeanAge / total
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sex < out[j].Sex })
	return out
}

// MeanAgeBySexFatality pivots mean age with fatality flags as rows and sex
// values as columns. Only rows with a Y/N flag, a sex and an age count.
func MeanAgeBySexFatality(t *Table) domain.FatalityPivot {
	sexes := t.texts(ColumnSex)
	flags := t.texts(ColumnFatal)
	ages := t.floats(ColumnAge)

	type key struct{ fatal, sex string }
	groups := make(map[key][]float64)
	fatalSeen := make(map[string]struct{})
	sexSeen := make(map[string]struct{})
	for i, sex := range sexes {
		flag, ok := FatalityFlags.Canonical(flags[i])
		if !ok || sex == "" || math.IsNaN(ages[i]) {
			continue
		}
		k := key{flag, sex}
		groups[k] = append(groups[k], ages[i])
		fatalSeen[flag] = struct{}{}
		sexSeen[sex] = struct{}{}
	}

	pivot := domain.FatalityPivot{Fatality: []string{}, Sex: []string{}, Cells: [][]*float64{}}
	for _, flag := range FatalityFlags.Labels() {
		if _, ok := fatalSeen[flag]; ok {
			pivot.Fatality = append(pivot.Fatality, flag)
		}
	}
	for sex := range sexSeen {
		pivot.Sex = append(pivot.Sex, sex)
	}
	sort.Strings(pivot.Sex)

	first := true
	for _, flag := range pivot.Fatality {
		row := make([]*float64, len(pivot.Sex))
		for j, sex := range pivot.Sex {
			vals, ok := groups[key{flag, sex}]
			if !ok {
				continue
			}
			m := meanOf(vals)
			row[j] = &m
			if first || m < pivot.Min {
				pivot.Min = m
			}
			if first || m > pivot.Max {
				pivot.Max = m
			}
			first = false
		}
		pivot.Cells = append(pivot.Cells, row)
	}
	return pivot
}

// DistinctVictimsByHour counts distinct victim names per hour of day.
// Rows without an hour are dropped; empty names are not counted as victims
// but still count towards Rows.
func DistinctVictimsByHour(t *Table) []domain.HourCount {
	times := t.texts(ColumnTime)
	names := t.texts(ColumnName)

	rows := make(map[int]int)
	victims := make(map[int]map[string]struct{})
	for i, s := range times {
		hour, ok := ExtractHour(s)
		if !ok {
			continue
		}
		rows[hour]++
		if victims[hour] == nil {
			victims[hour] = make(map[string]struct{})
		}
		if names[i] != "" {
			victims[hour][names[i]] = struct{}{}
		}
	}

	out := make([]domain.HourCount, 0, len(rows))
	for hour, n := range rows {
		out = append(out, domain.HourCount{Hour: hour, DistinctCount: len(victims[hour]), Rows: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}
