package response

import (
	"reflect"
	"regexp"
	"strings"
	"time"
)

var (
	varPattern    = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	ifPattern     = regexp.MustCompile(`(?s)\{\{#if ([a-zA-Z_][a-zA-Z0-9_]*)\}\}(.*?)\{\{/if\}\}`)
	unlessPattern = regexp.MustCompile(`(?s)\{\{#unless ([a-zA-Z_][a-zA-Z0-9_]*)\}\}(.*?)\{\{/unless\}\}`)
)

// Render fills a template body from the variable bag.
//
// Substitution runs in three passes: plain {{name}} tokens, then {{#if}}
// blocks, then {{#unless}} blocks. A token whose variable is absent is left
// verbatim in the output; downstream template authors rely on seeing the
// unresolved token rather than an empty string. Conditional blocks do not
// nest.
func Render(body string, variables map[string]interface{}, now time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}

	rendered := varPattern.ReplaceAllStringFunc(body, func(token string) string {
		name := token[2 : len(token)-2]
		value, ok := variables[name]
		if !ok {
			return token
		}
		return FormatValue(value, now)
	})

	rendered = ifPattern.ReplaceAllStringFunc(rendered, func(block string) string {
		match := ifPattern.FindStringSubmatch(block)
		if Truthy(variables[match[1]]) {
			return match[2]
		}
		return ""
	})

	rendered = unlessPattern.ReplaceAllStringFunc(rendered, func(block string) string {
		match := unlessPattern.FindStringSubmatch(block)
		if Truthy(variables[match[1]]) {
			return ""
		}
		return match[2]
	})

	return strings.TrimSpace(collapseSpaces(rendered))
}

// Truthy reports whether a variable value enables a conditional block.
// Nil, false, numeric zero, the empty string and empty collections are
// falsy; every other value is truthy.
func Truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case time.Duration:
		return v != 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	}
	return true
}

// collapseSpaces folds runs of spaces left behind by removed conditional
// blocks without touching newlines.
func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
