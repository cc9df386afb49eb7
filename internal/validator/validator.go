// Package validator performs semantic validation over a transformed domain
// model. Validation is batched: every problem in the model is collected
// before any is reported, so a single run surfaces the full defect list.
package validator

import (
	"fmt"
	"strings"

	"domainforge/internal/model"
)

// Error carries every validation message found in one pass over a model.
type Error struct {
	Messages []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "model validation failed: " + strings.Join(e.Messages, "; ")
}

// Validator checks a domain model for semantic consistency. It keeps no
// state between calls; each Validate builds its own name registry.
type Validator struct{}

// New creates a validator.
func New() *Validator {
	return &Validator{}
}

// Validate runs both validation passes and returns a *Error listing every
// problem, or nil when the model is clean.
//
// Pass one registers declared names in one registry shared across the whole
// model and flags redeclarations: every context, entity, value object,
// service and repository competes for the same namespace, so an entity in
// one context collides with an entity, or any other declaration, anywhere
// else. Pass two resolves relationship endpoints against the model-wide
// entity set; the passes are separate because a relationship may legally
// name an entity declared after it, in any context.
func (v *Validator) Validate(m *model.DomainModel) error {
	r := newRegistry()

	for i := range m.BoundedContexts {
		r.registerContext(&m.BoundedContexts[i])
	}
	for i := range m.BoundedContexts {
		r.checkContext(&m.BoundedContexts[i])
	}

	if len(r.messages) > 0 {
		return &Error{Messages: r.messages}
	}
	return nil
}

// registry tracks declared names during a single validation run.
type registry struct {
	// defined maps every declared name to the kind of its latest
	// declaration, spanning all contexts and all declaration kinds.
	defined map[string]string
	// entities is the model-wide entity-name set relationships resolve
	// against.
	entities map[string]bool
	messages []string
}

func newRegistry() *registry {
	return &registry{
		defined:  make(map[string]string),
		entities: make(map[string]bool),
	}
}

func (r *registry) addf(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

// registerContext records every name a context declares, flagging any name
// already taken by an earlier declaration of any kind.
func (r *registry) registerContext(ctx *model.BoundedContext) {
	if _, exists := r.defined[ctx.Name]; exists {
		r.addf("Duplicate bounded context name: %s", ctx.Name)
	}
	r.defined[ctx.Name] = "context"

	for i := range ctx.Entities {
		name := ctx.Entities[i].Name
		if _, exists := r.defined[name]; exists {
			r.addf("Duplicate entity name in context %s: %s", ctx.Name, name)
		}
		r.defined[name] = "entity"
		r.entities[name] = true
	}

	for _, vo := range ctx.ValueObjects {
		if _, exists := r.defined[vo.Name]; exists {
			r.addf("Duplicate value object name in context %s: %s", ctx.Name, vo.Name)
		}
		r.defined[vo.Name] = "value_object"
	}

	for _, svc := range ctx.Services {
		if _, exists := r.defined[svc.Name]; exists {
			r.addf("Duplicate service name in context %s: %s", ctx.Name, svc.Name)
		}
		r.defined[svc.Name] = "service"
	}

	for _, repo := range ctx.Repositories {
		if _, exists := r.defined[repo.Name]; exists {
			r.addf("Duplicate repository name in context %s: %s", ctx.Name, repo.Name)
		}
		r.defined[repo.Name] = "repository"
	}
}

// checkContext flags duplicate property names and resolves relationship
// endpoints. Targets may name an entity declared in any context;
// relationships the transformer could not attach have an unknown source by
// construction.
func (r *registry) checkContext(ctx *model.BoundedContext) {
	for i := range ctx.Entities {
		entity := &ctx.Entities[i]

		seen := make(map[string]bool)
		for _, prop := range entity.Properties {
			if seen[prop.Name] {
				r.addf("Duplicate property name in entity %s: %s", entity.Name, prop.Name)
			}
			seen[prop.Name] = true
		}

		for _, rel := range entity.Relationships {
			if !r.entities[rel.TargetEntity] {
				r.addf("Unknown target entity in relationship: %s", rel.TargetEntity)
			}
		}
	}

	for _, rel := range ctx.UnattachedRelationships {
		r.addf("Unknown source entity in relationship: %s", rel.SourceEntity)
		if !r.entities[rel.TargetEntity] {
			r.addf("Unknown target entity in relationship: %s", rel.TargetEntity)
		}
	}
}
