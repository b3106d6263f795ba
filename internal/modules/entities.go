package modules

import (
	"slices"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/internal/symexec"
	"github.com/blacktop/bytebun/pkg/classfile"
)

// AbstractEntity is the entities.entity key of the common entity base class
const AbstractEntity = "~abstract_entity"

// entityType is an entity class on its way to being registered, e.g. the
// builder produced from Zombie::new
type entityType struct {
	class string
}

// entityRecord is one registered entity
type entityRecord struct {
	Name    string `mapstructure:"name"`
	Class   string `mapstructure:"class"`
	ID      int    `mapstructure:"id"`
	Field   string `mapstructure:"field"`
	OldName string `mapstructure:"old_name"`
}

func (r *entityRecord) toMap() map[string]any {
	m := map[string]any{
		"name":  r.Name,
		"class": r.Class,
		"id":    r.ID,
	}
	if r.Field != "" {
		m["field"] = r.Field
	}
	if r.OldName != "" {
		m["old_name"] = r.OldName
	}
	return m
}

// registryObserver records the registration calls of the entity registry's static initializer.
//
// Legacy registries call a static helper with the class literal, the name and
// the numeric id (addMapping, or register(id, name, class, oldName) in 1.11).
// Newer ones call register(name, builder) where the builder carries a
// constructor reference; ids are then assigned in registration order.
type registryObserver struct {
	symexec.NopObserver
	registry string
	entities []*entityRecord
}

func entityTypeOf(v symexec.Value) (*entityType, bool) {
	p, ok := symexec.AsPayload(v)
	if !ok {
		return nil, false
	}
	t, ok := p.(*entityType)
	return t, ok
}

func (o *registryObserver) Invoke(ref symexec.MemberRef, receiver symexec.Value, args []symexec.Value) (symexec.Value, error) {
	if ref.IsStatic() && ref.Owner == o.registry {
		if rec := o.register(args); rec != nil {
			o.entities = append(o.entities, rec)
			return symexec.Semantic{Payload: rec}, nil
		}
	}
	if ref.Returns.IsReference() {
		// builder calls keep carrying the entity class
		if t, ok := entityTypeOf(receiver); ok {
			return symexec.Semantic{Payload: t}, nil
		}
		for _, arg := range args {
			if t, ok := entityTypeOf(arg); ok {
				return symexec.Semantic{Payload: t}, nil
			}
		}
	}
	return o.NopObserver.Invoke(ref, receiver, args)
}

// register builds a record from the arguments of a registration call, or returns nil
func (o *registryObserver) register(args []symexec.Value) *entityRecord {
	rec := &entityRecord{ID: -1}
	var names []string
	for _, arg := range args {
		switch v := arg.(type) {
		case symexec.ClassLiteral:
			if rec.Class == "" {
				rec.Class = v.Name
			}
		case symexec.Concrete:
			if s, ok := symexec.AsString(v); ok {
				names = append(names, s)
			} else if n, ok := symexec.AsInt(v); ok && rec.ID < 0 {
				rec.ID = int(n)
			}
		case symexec.Semantic:
			if t, ok := entityTypeOf(v); ok && rec.Class == "" {
				rec.Class = t.class
			}
		}
	}
	if rec.Class == "" || len(names) == 0 {
		return nil
	}
	rec.Name = names[0]
	if len(names) > 1 {
		rec.OldName = names[1]
	}
	if rec.ID < 0 {
		rec.ID = len(o.entities)
	}
	return rec
}

func (o *registryObserver) InvokeDynamic(ref symexec.DynamicRef, args []symexec.Value) (symexec.Value, error) {
	if target, ok := ref.Target(); ok && target.ReferenceKind == classfile.RefNewInvokeSpecial && target.Reference != nil {
		return symexec.Semantic{Payload: &entityType{class: target.Reference.Class}}, nil
	}
	return o.NopObserver.InvokeDynamic(ref, args)
}

func (o *registryObserver) WriteField(ref symexec.MemberRef, _ symexec.Value, value symexec.Value) error {
	if p, ok := symexec.AsPayload(value); ok {
		if rec, ok := p.(*entityRecord); ok && rec.Field == "" {
			rec.Field = ref.Name
		}
	}
	return nil
}

// EntitiesModule provides the registered entities.
type EntitiesModule struct{}

func (m *EntitiesModule) Name() string        { return "entities" }
func (m *EntitiesModule) Description() string { return "Gets most entity types" }
func (m *EntitiesModule) Provides() []string  { return []string{"entities.entity"} }
func (m *EntitiesModule) Depends() []string   { return []string{"identify.entity.list"} }

func (m *EntitiesModule) Act(facts *analysis.Facts, repo analysis.Repository, verbose bool) error {
	logger := verboseLog(verbose)

	name, err := className(m.Name(), facts, "entity.list")
	if err != nil {
		return err
	}
	cf, err := load(m.Name(), repo, name)
	if err != nil {
		return err
	}
	clinit := cf.Method("<clinit>")
	if clinit == nil {
		return analysis.Failf(m.Name(), "%s has no static initializer", name)
	}

	obs := &registryObserver{registry: name}
	if _, err := symexec.Walk(cf, clinit, obs, symexec.WithTrace(verbose)); err != nil {
		return analysis.Failf(m.Name(), "failed to walk %s.<clinit>: %v", name, err)
	}
	if len(obs.entities) == 0 {
		return analysis.Failf(m.Name(), "no entities registered in %s", name)
	}

	hierarchy := NewHierarchy(repo)
	base, err := hierarchy.Root(obs.entities[0].Class)
	if err != nil {
		return analysis.Failf(m.Name(), "failed to find the entity base class: %v", err)
	}

	entity := facts.Ensure("entities", "entity")
	for _, rec := range obs.entities {
		if _, dup := entity[rec.Name]; dup {
			logger.Warnf("Duplicate entity registration: %s", rec.Name)
			continue
		}
		entity[rec.Name] = rec.toMap()
	}
	entity[AbstractEntity] = map[string]any{
		"name":  AbstractEntity,
		"class": base,
	}

	ids := make([]int, 0, len(obs.entities))
	for _, rec := range obs.entities {
		ids = append(ids, rec.ID)
	}
	logger.Debugf("Found %d entities (ids %d-%d) with base class %s", len(obs.entities), slices.Min(ids), slices.Max(ids), base)
	return nil
}
