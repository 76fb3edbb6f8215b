package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParsePlan reads a plan written one action per line, e.g. "(drive t1 p1 p2)".
// Blank lines and ';' comments are ignored.
func ParsePlan(r io.Reader) (Plan, error) {
	var plan Plan
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text, _, _ := strings.Cut(sc.Text(), ";")
		text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "()"))
		if text == "" {
			continue
		}
		if strings.ContainsAny(text, "()") {
			return nil, fmt.Errorf("line %d %q: %w", line, sc.Text(), ErrMalformedPlan)
		}
		fields := strings.Fields(text)
		a := Action{Name: fields[0]}
		if len(fields) > 1 {
			a.Args = fields[1:]
		}
		plan = append(plan, a)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return plan, nil
}

// ParsePlanString is ParsePlan over a string.
func ParsePlanString(text string) (Plan, error) {
	return ParsePlan(strings.NewReader(text))
}
