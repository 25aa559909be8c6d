package response

import (
	"testing"
	"time"
)

func TestRenderSubstitution(t *testing.T) {
	got := Render("Hi {{name}}", map[string]interface{}{"name": "Al"}, time.Now())
	if got != "Hi Al" {
		t.Errorf("Expected 'Hi Al', got %q", got)
	}
}

func TestRenderMissingVariableLeftVerbatim(t *testing.T) {
	got := Render("Hi {{name}}", map[string]interface{}{}, time.Now())
	if got != "Hi {{name}}" {
		t.Errorf("Unresolved tokens must stay verbatim, got %q", got)
	}
}

func TestRenderIfBlock(t *testing.T) {
	cases := []struct {
		value interface{}
		want  string
	}{
		{0, ""},
		{5, "X"},
		{false, ""},
		{true, "X"},
		{"", ""},
		{"yes", "X"},
		{nil, ""},
		{[]string{}, ""},
		{[]string{"a"}, "X"},
	}
	for _, c := range cases {
		got := Render("{{#if s}}X{{/if}}", map[string]interface{}{"s": c.value}, time.Now())
		if got != c.want {
			t.Errorf("if-block with %#v: expected %q, got %q", c.value, c.want, got)
		}
	}
}

func TestRenderIfBlockAbsentVariable(t *testing.T) {
	got := Render("{{#if s}}X{{/if}}", map[string]interface{}{}, time.Now())
	if got != "" {
		t.Errorf("Absent variable must remove the if-block, got %q", got)
	}
}

func TestRenderUnlessBlock(t *testing.T) {
	got := Render("{{#unless done}}still going{{/unless}}", map[string]interface{}{"done": false}, time.Now())
	if got != "still going" {
		t.Errorf("Expected 'still going', got %q", got)
	}

	got = Render("{{#unless done}}still going{{/unless}}", map[string]interface{}{"done": true}, time.Now())
	if got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}

func TestRenderSubstitutionInsideConditional(t *testing.T) {
	got := Render("{{#if n}}streak is {{n}}{{/if}}", map[string]interface{}{"n": 3}, time.Now())
	if got != "streak is 3" {
		t.Errorf("Expected 'streak is 3', got %q", got)
	}
}

func TestRenderCombined(t *testing.T) {
	body := "Done with {{habit}}! {{#if record}}New record!{{/if}}{{#unless record}}Keep going.{{/unless}}"
	got := Render(body, map[string]interface{}{"habit": "yoga", "record": true}, time.Now())
	if got != "Done with yoga! New record!" {
		t.Errorf("Expected combined render, got %q", got)
	}

	got = Render(body, map[string]interface{}{"habit": "yoga", "record": false}, time.Now())
	if got != "Done with yoga! Keep going." {
		t.Errorf("Expected unless branch, got %q", got)
	}
}

func TestTruthy(t *testing.T) {
	falsy := []interface{}{nil, false, 0, int64(0), 0.0, "", []int{}, map[string]int{}}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Expected %#v to be falsy", v)
		}
	}

	truthy := []interface{}{true, 1, -1, 0.5, "x", []int{1}, map[string]int{"a": 1}, time.Now()}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Expected %#v to be truthy", v)
		}
	}
}
