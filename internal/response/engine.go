// Package response renders natural-language replies from typed response
// contexts using a small template language with variable substitution,
// conditional blocks and weighted random selection.
package response

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/entities"
)

var (
	// ErrNotInitialized is returned when the engine is used before Initialize.
	ErrNotInitialized = errors.New("template engine not initialized")
	// ErrNoTemplates is returned when a response type has no templates.
	ErrNoTemplates = errors.New("no templates registered")
	// ErrNoUsableTemplate is returned when every candidate template is
	// missing at least one required variable.
	ErrNoUsableTemplate = errors.New("missing required variables for every template")
)

// Template is one immutable response template. Weight biases random
// selection; it must be positive.
type Template struct {
	ID           string
	Body         string
	RequiredVars []string
	OptionalVars []string
	Weight       int
}

// Catalog maps response types to their ordered template lists. A catalog is
// built once at startup and handed to the engine by the caller.
type Catalog map[entities.ResponseType][]Template

// Engine selects and renders templates. Aside from the catalog loaded by
// Initialize it holds no mutable state shared across renders, so one engine
// may serve many sessions concurrently.
type Engine struct {
	catalog Catalog
	logger  *zap.Logger

	mu          sync.Mutex
	rng         *rand.Rand
	initialized bool
}

// NewEngine creates an engine over the given catalog.
func NewEngine(catalog Catalog, logger *zap.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Initialize loads the catalog. Calling it again is a no-op; it always
// succeeds.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	e.initialized = true

	total := 0
	for _, templates := range e.catalog {
		total += len(templates)
	}
	e.logger.Info("Template catalog loaded",
		zap.Int("responseTypes", len(e.catalog)),
		zap.Int("templates", total))
	return nil
}

// ValidateContext checks whether the context can produce a response: the
// engine must be initialized, templates must exist for the response type,
// and at least one of them must have all its required variables present.
func (e *Engine) ValidateContext(ctx entities.ResponseContext) error {
	_, err := e.usableTemplates(ctx)
	return err
}

// GetResponse selects one usable template by weighted random draw and
// renders it against the context's variables.
func (e *Engine) GetResponse(ctx entities.ResponseContext) (string, error) {
	usable, err := e.usableTemplates(ctx)
	if err != nil {
		return "", err
	}

	selected := e.pick(usable)
	rendered := Render(selected.Body, ctx.Variables, ctx.Timestamp)

	e.logger.Debug("Response rendered",
		zap.String("responseType", string(ctx.Type)),
		zap.String("templateID", selected.ID))
	return rendered, nil
}

// GetRandomResponse is sugar over GetResponse with a fresh context
// timestamped now.
func (e *Engine) GetRandomResponse(responseType entities.ResponseType, variables map[string]interface{}) (string, error) {
	return e.GetResponse(entities.NewResponseContext(responseType, variables))
}

func (e *Engine) usableTemplates(ctx entities.ResponseContext) ([]Template, error) {
	e.mu.Lock()
	initialized := e.initialized
	e.mu.Unlock()
	if !initialized {
		return nil, ErrNotInitialized
	}

	templates, ok := e.catalog[ctx.Type]
	if !ok || len(templates) == 0 {
		return nil, fmt.Errorf("%w for response type %q", ErrNoTemplates, ctx.Type)
	}

	var usable []Template
	for _, tmpl := range templates {
		if hasRequiredVars(tmpl, ctx.Variables) {
			usable = append(usable, tmpl)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w for response type %q", ErrNoUsableTemplate, ctx.Type)
	}
	return usable, nil
}

func hasRequiredVars(tmpl Template, variables map[string]interface{}) bool {
	for _, name := range tmpl.RequiredVars {
		if _, ok := variables[name]; !ok {
			return false
		}
	}
	return true
}

// pick draws a template proportionally to its weight: a uniform draw in
// [0, sum of weights) walked against cumulative weights.
func (e *Engine) pick(usable []Template) Template {
	total := 0
	for _, tmpl := range usable {
		total += weightOf(tmpl)
	}

	e.mu.Lock()
	draw := e.rng.Intn(total)
	e.mu.Unlock()

	cumulative := 0
	for _, tmpl := range usable {
		cumulative += weightOf(tmpl)
		if cumulative > draw {
			return tmpl
		}
	}
	return usable[len(usable)-1]
}

func weightOf(tmpl Template) int {
	if tmpl.Weight < 1 {
		return 1
	}
	return tmpl.Weight
}
