package mip

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const termsPerLine = 8

// WriteLP writes the model in CPLEX LP format so it can be handed to an
// external MIP solver when a solve needs to be reproduced.
func (m *Model) WriteLP(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ %s\n", m.name)
	if m.sense == Maximize {
		fmt.Fprintln(bw, "Maximize")
	} else {
		fmt.Fprintln(bw, "Minimize")
	}
	bw.WriteString(" obj:")
	if len(m.objective) == 0 {
		fmt.Fprintf(bw, " 0 %s", lpName(m.vars[0].Name))
	}
	m.writeTerms(bw, m.objective)
	bw.WriteString("\n")

	fmt.Fprintln(bw, "Subject To")
	for _, c := range m.constraints {
		fmt.Fprintf(bw, " %s:", lpName(c.Name))
		m.writeTerms(bw, c.Terms)
		fmt.Fprintf(bw, " %s %s\n", c.Sense, lpNumber(c.RHS))
	}

	fmt.Fprintln(bw, "Bounds")
	for _, v := range m.vars {
		if v.Kind == Binary {
			continue
		}
		fmt.Fprintf(bw, " %s <= %s <= %s\n", lpNumber(v.Lower), lpName(v.Name), lpNumber(v.Upper))
	}

	m.writeSection(bw, "Binaries", Binary)
	m.writeSection(bw, "Generals", Integer)
	fmt.Fprintln(bw, "End")

	return bw.Flush()
}

func (m *Model) writeTerms(bw *bufio.Writer, terms []Term) {
	for i, t := range terms {
		if i > 0 && i%termsPerLine == 0 {
			bw.WriteString("\n   ")
		}
		sign := "+"
		coef := t.Coef
		if coef < 0 {
			sign = "-"
			coef = -coef
		}
		if i == 0 && sign == "+" {
			fmt.Fprintf(bw, " %s %s", lpNumber(coef), lpName(m.vars[t.Var].Name))
			continue
		}
		fmt.Fprintf(bw, " %s %s %s", sign, lpNumber(coef), lpName(m.vars[t.Var].Name))
	}
}

func (m *Model) writeSection(bw *bufio.Writer, header string, kind VarKind) {
	var names []string
	for _, v := range m.vars {
		if v.Kind == kind {
			names = append(names, lpName(v.Name))
		}
	}
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(bw, header)
	for i := 0; i < len(names); i += termsPerLine {
		end := i + termsPerLine
		if end > len(names) {
			end = len(names)
		}
		fmt.Fprintf(bw, " %s\n", strings.Join(names[i:end], " "))
	}
}

// lpName maps a model name onto the LP identifier alphabet.
func lpName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
}

func lpNumber(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
