package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrEmptyExpression is returned when compiling a blank expression
var ErrEmptyExpression = errors.New("empty filter expression")

const cacheSize = 64

var compiled = newProgramCache(cacheSize)

// Filter is a compiled boolean expression over a Subject
type Filter struct {
	program    *vm.Program
	expression string
}

// Compile compiles an expr-lang expression such as
//
//	hasPrefix(Name, "boston") and Modified > daysAgo(30)
//
// Compiled filters are cached by expression text.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, ErrEmptyExpression
	}

	if f, ok := compiled.lookup(expression); ok {
		return f, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnv(Subject{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	f := &Filter{program: program, expression: expression}
	compiled.store(f)
	return f, nil
}

// Match evaluates the filter against a subject. Evaluation errors count as
// no match.
func (f *Filter) Match(s Subject) bool {
	result, err := expr.Run(f.program, newEnv(s))
	if err != nil {
		return false
	}

	matched, ok := result.(bool)
	return ok && matched
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expression
}

// Apply keeps the items whose Subject matches f. A nil filter keeps everything.
func Apply[T any](f *Filter, items []T, subject func(T) Subject) []T {
	if f == nil {
		return items
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if f.Match(subject(item)) {
			kept = append(kept, item)
		}
	}
	return kept
}

func newEnv(s Subject) map[string]any {
	return map[string]any{
		// Subject data
		"Kind":      string(s.Kind),
		"Name":      s.Name,
		"Workspace": s.Workspace,
		"Created":   s.Created,
		"Modified":  s.Modified,
		"Public":    s.Public,
		"Starred":   s.Starred,
		"Edge":      s.Edge,
		"NodeCount": s.NodeCount,
		"EdgeCount": s.EdgeCount,

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},

		// String helpers, case-insensitive. Case-sensitive matching uses the
		// contains/startsWith/endsWith operators.
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffix": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
	}
}
