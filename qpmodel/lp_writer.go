// Copyright 2024 The qubogo Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qpmodel

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// WriteLP writes the model to `w` as an LP-format text dump, for human
// inspection. The dump has the usual sections: the objective header
// (`Maximize` or `Minimize`), `Subject To`, `Bounds`, `Binaries`,
// `Generals`, and `End`. Quadratic objective terms use the bracketed
// `[ ... ]/2` convention, with coefficients doubled inside the brackets.
func (m *Model) WriteLP(w io.Writer) error {
	var b strings.Builder

	if m.sense == Maximization {
		b.WriteString("Maximize\n")
	} else {
		b.WriteString("Minimize\n")
	}
	b.WriteString(" obj: ")
	b.WriteString(m.formatObjective())
	b.WriteString("\n")

	b.WriteString("Subject To\n")
	for _, c := range m.constrs {
		fmt.Fprintf(&b, " %s: %s %s %s\n", c.Name, m.formatTerms(c.Terms), c.Sense, formatNum(c.RHS))
	}

	b.WriteString("Bounds\n")
	for _, v := range m.vars {
		if v.Kind == BinaryVar {
			continue
		}
		fmt.Fprintf(&b, " %s <= %s <= %s\n", formatBound(v.Lo, "-infinity"), v.Name, formatBound(v.Hi, "+infinity"))
	}

	writeVarSection(&b, "Binaries", m.vars, BinaryVar)
	writeVarSection(&b, "Generals", m.vars, IntegerVar)
	b.WriteString("End\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeVarSection(b *strings.Builder, header string, vars []VarInfo, kind VarKind) {
	var names []string
	for _, v := range vars {
		if v.Kind == kind {
			names = append(names, v.Name)
		}
	}
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n %s\n", header, strings.Join(names, " "))
}

func (m *Model) formatObjective() string {
	s := m.formatTerms(m.objTerms)
	if len(m.objQuad) > 0 {
		var quads []string
		for _, t := range m.objQuad {
			name := fmt.Sprintf("%s * %s", m.vars[t.I].Name, m.vars[t.J].Name)
			if t.I == t.J {
				name = m.vars[t.I].Name + " ^2"
			}
			quads = append(quads, appendTerm(len(quads) == 0, 2*t.Coeff, name))
		}
		if s == "0" {
			s = ""
		} else {
			s += " + "
		}
		s += "[ " + strings.Join(quads, " ") + " ]/2"
	}
	if m.objOffset != 0 {
		s += fmt.Sprintf(" + %s", formatNum(m.objOffset))
	}
	return s
}

func (m *Model) formatTerms(terms []Term) string {
	if len(terms) == 0 {
		return "0"
	}
	var parts []string
	for i, t := range terms {
		parts = append(parts, appendTerm(i == 0, t.Coeff, m.vars[t.Var].Name))
	}
	return strings.Join(parts, " ")
}

// appendTerm formats one `coeff name` term. The leading term carries its
// sign directly, later terms are joined with `+` or `-`.
func appendTerm(first bool, coeff float64, name string) string {
	sign := "+ "
	if coeff < 0 {
		sign = "- "
		coeff = -coeff
	} else if first {
		sign = ""
	}
	if first && sign == "- " {
		if coeff == 1 {
			return "-" + name
		}
		return fmt.Sprintf("-%s %s", formatNum(coeff), name)
	}
	if coeff == 1 {
		return sign + name
	}
	return fmt.Sprintf("%s%s %s", sign, formatNum(coeff), name)
}

func formatBound(v float64, inf string) string {
	if math.IsInf(v, 0) {
		return inf
	}
	return formatNum(v)
}

func formatNum(v float64) string {
	return fmt.Sprintf("%g", v)
}
