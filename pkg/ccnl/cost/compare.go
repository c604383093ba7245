package cost

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LineDelta is the difference of one named cost line between two profiles.
// A line present in only one profile counts as zero in the other.
type LineDelta struct {
	Name    string  `json:"name"`
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	Delta   float64 `json:"delta"`
	Percent float64 `json:"percent"`
}

// Comparison is the result of comparing profile B against profile A.
type Comparison struct {
	A Breakdown `json:"a"`
	B Breakdown `json:"b"`

	// Lines follows A's line order, then lines only B has.
	Lines []LineDelta `json:"lines"`

	// DeltaAnnual and DeltaMonthly are B minus A.
	DeltaAnnual  float64 `json:"delta_annual"`
	DeltaMonthly float64 `json:"delta_monthly"`

	// Percent is DeltaAnnual relative to A's total, 0 when A costs nothing.
	Percent float64 `json:"percent"`

	// Cheaper is the code of the less expensive profile, empty on a tie.
	Cheaper string `json:"cheaper,omitempty"`
}

// Compare simulates both profiles and reports B relative to A.
func Compare(a, b Profile) (Comparison, error) {
	ba, err := Simulate(a)
	if err != nil {
		return Comparison{}, fmt.Errorf("simulate %s: %w", a.Code, err)
	}
	bb, err := Simulate(b)
	if err != nil {
		return Comparison{}, fmt.Errorf("simulate %s: %w", b.Code, err)
	}

	cmp := Comparison{
		A:            ba,
		B:            bb,
		DeltaAnnual:  round(bb.TotalAnnual - ba.TotalAnnual),
		DeltaMonthly: round(bb.TotalMonthly - ba.TotalMonthly),
		Percent:      percent(ba.TotalAnnual, bb.TotalAnnual),
	}

	switch {
	case ba.TotalAnnual < bb.TotalAnnual:
		cmp.Cheaper = ba.Code
	case bb.TotalAnnual < ba.TotalAnnual:
		cmp.Cheaper = bb.Code
	}

	// Gross salary leads the line list so the table reads top to bottom.
	cmp.Lines = append(cmp.Lines, delta("Retribuzione lorda", ba.GrossAnnual, bb.GrossAnnual))

	inB := make(map[string]float64, len(bb.Lines))
	for _, l := range bb.Lines {
		inB[l.Name] += l.Annual
	}
	seen := make(map[string]bool, len(ba.Lines))
	for _, l := range ba.Lines {
		if seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		cmp.Lines = append(cmp.Lines, delta(l.Name, sumLines(ba.Lines, l.Name), inB[l.Name]))
	}
	for _, l := range bb.Lines {
		if seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		cmp.Lines = append(cmp.Lines, delta(l.Name, 0, inB[l.Name]))
	}
	return cmp, nil
}

func sumLines(lines []Line, name string) float64 {
	var total float64
	for _, l := range lines {
		if l.Name == name {
			total += l.Annual
		}
	}
	return total
}

func delta(name string, a, b float64) LineDelta {
	return LineDelta{Name: name, A: a, B: b, Delta: round(b - a), Percent: percent(a, b)}
}

func percent(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return round((b - a) / a * 100)
}

var italian = message.NewPrinter(language.Italian)

// Format writes amount in Italian notation with the euro sign,
// e.g. "€ 1.850,50".
func Format(amount float64) string {
	return italian.Sprintf("€ %.2f", amount)
}

// FormatPercent writes a signed percentage in Italian notation, e.g. "+3,25%".
func FormatPercent(p float64) string {
	return italian.Sprintf("%+.2f%%", p)
}
