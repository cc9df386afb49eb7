// Package model defines the typed domain model produced by interpreting
// DomainForge DSL source.
//
// All nodes are plain value trees assembled once during transformation and
// never mutated afterwards, except that the transformer appends each
// context-level relationship onto the entity whose name matches its source.
// JSON field order follows struct declaration order, which is the stable
// ordering downstream generators rely on.
package model

// DomainModel is the root of a parsed model: an ordered sequence of bounded
// contexts. An empty sequence is a valid model.
type DomainModel struct {
	BoundedContexts []BoundedContext `json:"bounded_contexts"`
}

// BoundedContext is a named top-level grouping of domain elements.
// Name uniqueness is enforced by the validator, not at construction.
type BoundedContext struct {
	Name         string        `json:"name"`
	Entities     []Entity      `json:"entities"`
	ValueObjects []ValueObject `json:"value_objects"`
	Events       []Event       `json:"events"`
	Services     []Service     `json:"services"`
	Repositories []Repository  `json:"repositories"`
	Modules      []Module      `json:"modules"`
	Roles        []Role        `json:"roles"`

	// UnattachedRelationships holds relationships whose declared source did
	// not match any entity in this context. They are kept rather than
	// dropped so the validator can reject them.
	UnattachedRelationships []Relationship `json:"unattached_relationships,omitempty"`
}

// Entity is an aggregate-root-like domain object. Parent is a nominal
// single-inheritance reference, never resolved to a node.
type Entity struct {
	Name          string         `json:"name"`
	Parent        string         `json:"parent,omitempty"`
	Properties    []Property     `json:"properties"`
	Methods       []Method       `json:"methods"`
	Apis          []ApiEndpoint  `json:"apis"`
	Uis           []UiComponent  `json:"uis"`
	Relationships []Relationship `json:"relationships"`
}

// Property is a named, typed attribute of an entity, value object, event or
// role. Type is the canonical string rendering of a possibly-generic type
// expression (for example List<String> or Dict<String:Int>).
type Property struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	DefaultValue *Value   `json:"default_value,omitempty"`
	Constraints  []string `json:"constraints"`
}

// Method is a callable member of an entity, service or repository.
type Method struct {
	Name        string      `json:"name"`
	Visibility  string      `json:"visibility"`
	Parameters  []Parameter `json:"parameters"`
	ReturnType  string      `json:"return_type,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Parameter is a named, typed argument in a method signature, API endpoint
// or UI component.
type Parameter struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	DefaultValue *Value `json:"default_value,omitempty"`
}

// ApiEndpoint is a REST endpoint declaration attached to an entity or
// service.
type ApiEndpoint struct {
	HttpMethod  string      `json:"http_method"`
	Path        string      `json:"path"`
	Parameters  []Parameter `json:"parameters"`
	ReturnType  string      `json:"return_type,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Relationship is a directed, typed link between two entities. The type is
// the relationship symbol carried through verbatim (one of => <-> -- -> .
// :: / =); the grammar attaches no semantics to it.
type Relationship struct {
	SourceEntity     string `json:"source_entity"`
	TargetEntity     string `json:"target_entity"`
	RelationshipType string `json:"relationship_type"`
	Description      string `json:"description,omitempty"`
}

// ValueObject is an identity-less, property-only domain object.
type ValueObject struct {
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// Event is a domain event. Structurally identical to ValueObject but kept
// as a distinct type because the target model treats it distinctly.
type Event struct {
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// Role is an actor in the domain.
type Role struct {
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// Service is a domain service: methods plus API endpoints, no state.
type Service struct {
	Name    string        `json:"name"`
	Methods []Method      `json:"methods"`
	Apis    []ApiEndpoint `json:"apis"`
}

// Repository declares the access interface for an entity.
type Repository struct {
	Name    string   `json:"name"`
	Methods []Method `json:"methods"`
}

// Module is a grouping construct below the bounded-context level.
type Module struct {
	Name         string        `json:"name"`
	Entities     []Entity      `json:"entities"`
	ValueObjects []ValueObject `json:"value_objects"`
	Events       []Event       `json:"events"`
	Services     []Service     `json:"services"`
	Repositories []Repository  `json:"repositories"`
}
