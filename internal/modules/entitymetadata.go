package modules

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/mitchellh/mapstructure"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/internal/symexec"
	"github.com/blacktop/bytebun/pkg/classfile"
)

const registerDataDesc = "()V"

// metadataClasses are the identified classes the metadata walk needs
type metadataClasses struct {
	Metadata      string `mapstructure:"metadata"`
	ItemStack     string `mapstructure:"itemstack"`
	NBTCompound   string `mapstructure:"nbtcompound"`
	ChatComponent string `mapstructure:"chatcomponent"`
	Position      string `mapstructure:"position"`
}

// serializer is one registered data serializer
type serializer struct {
	Type       string
	Name       string
	Class      string
	Field      string
	ID         int
	registered bool
}

func (s *serializer) toMap() map[string]any {
	m := map[string]any{
		"type":  s.Type,
		"class": s.Class,
		"field": s.Field,
	}
	if s.Name != "" {
		m["name"] = s.Name
	}
	if s.registered {
		m["id"] = s.ID
	}
	return m
}

// metadataEntry is one data key created by an entity class
type metadataEntry struct {
	SerializerID int
	Serializer   any // name when known, id otherwise
	Index        int
	Field        string
	Default      any
	hasDefault   bool
}

func (e *metadataEntry) toMap() map[string]any {
	m := map[string]any{
		"serializer_id": e.SerializerID,
		"serializer":    e.Serializer,
		"index":         e.Index,
	}
	if e.Field != "" {
		m["field"] = e.Field
	}
	if e.hasDefault {
		m["default"] = e.Default
	}
	return m
}

func payload[T any](v symexec.Value) (T, bool) {
	var zero T
	p, ok := symexec.AsPayload(v)
	if !ok {
		return zero, false
	}
	t, ok := p.(T)
	return t, ok
}

// EntityMetadataModule provides the entity data keys each entity class
// registers, with their serializer, index and default value.
type EntityMetadataModule struct{}

func (m *EntityMetadataModule) Name() string { return "entitymetadata" }

func (m *EntityMetadataModule) Description() string {
	return "Provides the metadata (data tracker) layout of every entity"
}

func (m *EntityMetadataModule) Provides() []string {
	return []string{"entities.metadata"}
}

func (m *EntityMetadataModule) Depends() []string {
	return []string{
		"entities.entity",
		"identify.metadata",
		"identify.nbtcompound",
		"identify.itemstack",
		"identify.chatcomponent",
		"identify.position",
	}
}

func (m *EntityMetadataModule) Act(facts *analysis.Facts, repo analysis.Repository, verbose bool) error {
	raw, ok := facts.Map("entities", "entity")
	if !ok {
		return analysis.Failf(m.Name(), "no entities")
	}
	var entities map[string]entityRecord
	if err := mapstructure.WeakDecode(raw, &entities); err != nil {
		return analysis.Failf(m.Name(), "failed to decode entities: %v", err)
	}
	classMap, _ := facts.Map("classes")
	var classes metadataClasses
	if err := mapstructure.Decode(classMap, &classes); err != nil {
		return analysis.Failf(m.Name(), "failed to decode identified classes: %v", err)
	}
	if classes.Metadata == "" {
		return analysis.Failf(m.Name(), "data manager class was not identified")
	}

	w, err := newMetadataWalker(repo, classes, entities, verbose)
	if err != nil {
		return err
	}

	dataserializers := make(map[string]any, len(w.serializers))
	for name, s := range w.serializers {
		dataserializers[name] = s.toMap()
	}
	facts.Ensure("entities")["dataserializers"] = dataserializers

	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, err := w.fill(entities[name].Class); err != nil {
			return analysis.Failf(m.Name(), "failed to read metadata of %s: %v", name, err)
		}
	}

	for _, name := range names {
		e, ok := raw[name].(map[string]any)
		if !ok {
			continue
		}
		metadata, err := w.layout(entities[name].Class)
		if err != nil {
			return analysis.Failf(m.Name(), "failed to lay out metadata of %s: %v", name, err)
		}
		e["metadata"] = metadata
	}
	return nil
}

// metadataWalker holds what is learned once per artifact and the per-class results
type metadataWalker struct {
	repo      analysis.Repository
	hierarchy *Hierarchy
	classes   metadataClasses
	logger    log.Interface

	createKey        *classfile.Method
	register         *classfile.Method
	dataParameter    string
	dataSerializer   string
	dataSerializers  string
	baseEntity       string
	registerDataName string

	serializers        map[string]*serializer
	serializersByField map[string]*serializer

	entityClasses      map[string]string // class -> entity name
	metadataByClass    map[string][]*metadataEntry
	textComponentClass string
}

func newMetadataWalker(repo analysis.Repository, classes metadataClasses, entities map[string]entityRecord, verbose bool) (*metadataWalker, error) {
	const module = "entitymetadata"
	w := &metadataWalker{
		repo:            repo,
		hierarchy:       NewHierarchy(repo),
		classes:         classes,
		logger:          verboseLog(verbose),
		entityClasses:   make(map[string]string, len(entities)),
		metadataByClass: make(map[string][]*metadataEntry),
	}
	for name, e := range entities {
		w.entityClasses[e.Class] = name
	}

	dm, err := load(module, repo, classes.Metadata)
	if err != nil {
		return nil, err
	}
	for _, method := range dm.Methods {
		sig, err := method.Signature()
		if err != nil || len(sig.Args) != 2 {
			continue
		}
		if w.createKey == nil && sig.Args[0].Name == "java/lang/Class" && sig.Args[0].Dimensions == 0 {
			w.createKey = method
			w.dataParameter = sig.Returns.Name
			w.dataSerializer = sig.Args[1].Name
		}
	}
	if w.createKey == nil {
		return nil, analysis.Failf(module, "no createKey method in %s", dm.Name)
	}
	registers := dm.FindMethods(func(method *classfile.Method) bool {
		sig, err := method.Signature()
		return err == nil && len(sig.Args) == 2 && sig.Args[0].Name == w.dataParameter
	})
	if len(registers) == 0 {
		return nil, analysis.Failf(module, "no register method in %s", dm.Name)
	}
	w.register = registers[0]

	if err := w.findDataSerializers(); err != nil {
		return nil, err
	}

	base, ok := entities[AbstractEntity]
	if !ok || base.Class == "" {
		return nil, analysis.Failf(module, "the entity base class is unknown")
	}
	w.baseEntity = base.Class
	if err := w.findRegisterData(); err != nil {
		return nil, err
	}

	if err := w.identifySerializers(); err != nil {
		return nil, err
	}
	return w, nil
}

// findDataSerializers finds the serializer registry from the lookup in the
// register method that throws "Unregistered serializer "
func (w *metadataWalker) findDataSerializers() error {
	instructions, err := w.register.Instructions()
	if err != nil {
		return analysis.Failf("entitymetadata", "failed to disassemble %s.%s: %v", w.classes.Metadata, w.register.Name, err)
	}
	for _, ins := range instructions {
		switch {
		case ins.Opcode == classfile.OpInvokestatic:
			c, _ := ins.Const()
			if ref, ok := c.(*classfile.MemberRef); ok {
				w.dataSerializers = ref.Class
			}
		case w.dataSerializers != "" && isLdcString("Unregistered serializer ")(ins):
			return nil
		}
	}
	return analysis.Failf("entitymetadata", "failed to identify dataserializers")
}

// findRegisterData finds registerData (formerly entityInit), the last no-arg
// virtual call of the base entity constructor
func (w *metadataWalker) findRegisterData() error {
	cf, err := load("entitymetadata", w.repo, w.baseEntity)
	if err != nil {
		return err
	}
	init := cf.Method("<init>")
	if init == nil {
		return analysis.Failf("entitymetadata", "%s has no constructor", w.baseEntity)
	}
	instructions, err := init.Instructions()
	if err != nil {
		return analysis.Failf("entitymetadata", "failed to disassemble %s.<init>: %v", w.baseEntity, err)
	}
	for _, ins := range instructions {
		if ins.Opcode != classfile.OpInvokevirtual {
			continue
		}
		c, _ := ins.Const()
		if ref, ok := c.(*classfile.MemberRef); ok && ref.Descriptor == registerDataDesc {
			w.registerDataName = ref.Name
		}
	}
	return nil
}

// identifySerializers reads the serializer registry's static initializer:
// `new S; ...; putstatic FIELD` creates a serializer and `getstatic FIELD; invokestatic register` gives it the next id.
func (w *metadataWalker) identifySerializers() error {
	const module = "entitymetadata"
	cf, err := load(module, w.repo, w.dataSerializers)
	if err != nil {
		return err
	}
	clinit := cf.Method("<clinit>")
	if clinit == nil {
		return analysis.Failf(module, "%s has no static initializer", w.dataSerializers)
	}
	instructions, err := clinit.Instructions()
	if err != nil {
		return analysis.Failf(module, "failed to disassemble %s.<clinit>: %v", w.dataSerializers, err)
	}

	w.serializers = make(map[string]*serializer)
	w.serializersByField = make(map[string]*serializer)
	lastClass := ""
	id := 0
	for _, ins := range instructions {
		c, _ := ins.Const()
		switch ins.Opcode {
		case classfile.OpNew:
			if class, ok := c.(*classfile.ClassRef); ok {
				lastClass = class.Name
			}
		case classfile.OpPutstatic:
			ref, ok := c.(*classfile.MemberRef)
			if !ok || ref.Descriptor != "L"+w.dataSerializer+";" {
				// e.g. the registry itself
				continue
			}
			if lastClass == "" {
				return analysis.Failf(module, "serializer %s is not created with new", ref.Name)
			}
			s, err := w.identifySerializer(lastClass)
			if err != nil {
				return err
			}
			s.Class = lastClass
			s.Field = ref.Name
			w.serializersByField[ref.Name] = s
		case classfile.OpGetstatic:
			ref, ok := c.(*classfile.MemberRef)
			if !ok {
				continue
			}
			s, ok := w.serializersByField[ref.Name]
			if !ok {
				continue
			}
			s.ID = id
			s.registered = true
			name := s.Name
			if name == "" {
				name = strconv.Itoa(id)
			}
			if other, dup := w.serializers[name]; dup {
				w.logger.Warnf("Duplicate serializer with identified name %s: original %s, new %s", name, other.Class, s.Class)
				name = strconv.Itoa(id)
			}
			w.serializers[name] = s
			id++
		}
	}
	return nil
}

// identifySerializer names a serializer class from the type argument of its generic signature
func (w *metadataWalker) identifySerializer(class string) (*serializer, error) {
	cf, err := load("entitymetadata", w.repo, class)
	if err != nil {
		return nil, err
	}
	sig, ok := cf.Signature()
	if !ok {
		return nil, analysis.Failf("entitymetadata", "serializer %s has no generic signature", class)
	}
	// Ljava/lang/Object;Los<Ljava/util/Optional<Lel;>;>; -> java/util/Optional<Lel;>
	inner, err := typeArgument(sig)
	if err != nil {
		return nil, analysis.Failf("entitymetadata", "serializer %s: %v", class, err)
	}
	s := &serializer{Type: inner}

	prefix := ""
	if strings.Contains(inner, "Optional<") {
		// both java and guava optionals show up
		prefix = "Opt"
		if inner, err = typeArgument(inner); err != nil {
			return nil, analysis.Failf("entitymetadata", "serializer %s: %v", class, err)
		}
	}

	name := ""
	switch {
	case strings.HasPrefix(inner, "java/lang/"):
		name = strings.TrimPrefix(inner, "java/lang/")
		if name == "Integer" {
			name = "VarInt"
		}
	case inner == "java/util/UUID":
		name = "UUID"
	case inner == "java/util/OptionalInt":
		name = "OptVarInt"
	case inner == w.classes.NBTCompound:
		name = "NBT"
	case inner == w.classes.ItemStack:
		name = "Slot"
	case inner == w.classes.ChatComponent:
		name = "Chat"
	case w.classes.Position != "" && inner == w.classes.Position:
		name = "BlockPos"
	default:
		name = w.guessSerializedType(inner, prefix)
	}
	if name != "" {
		s.Name = prefix + name
	}
	return s, nil
}

// guessSerializedType recognizes the serialized class by its shape
func (w *metadataWalker) guessSerializedType(class, prefix string) string {
	if !w.hierarchy.Contains(class) {
		w.logger.Warnf("Failed to determine name of metadata content type %s", class)
		return ""
	}
	cf, err := w.repo.Load(class)
	if err != nil {
		w.logger.WithError(err).Warnf("Failed to determine name of metadata content type %s", class)
		return ""
	}
	floats := cf.FindFields(func(f *classfile.Field) bool { return f.Descriptor == "F" })
	switch {
	case len(floats) == 3:
		return "Rotations"
	case cf.Constants.HasString("down"):
		return "Facing"
	case cf.Constants.HasString("minecraft:air"):
		// only works in 1.14, where the block state is not an interface
		return "BlockState"
	case cf.AccessFlags.IsInterface():
		if prefix == "Opt" {
			return "BlockState"
		}
		return "Particle"
	}
	return ""
}

// typeArgument strips the outermost type arguments of a signature down to the
// class they name: "Ljava/lang/Object;Lfoo<Ljava/util/UUID;>;" -> "java/util/UUID"
func typeArgument(sig string) (string, error) {
	open := strings.Index(sig, "<")
	end := strings.LastIndex(sig, ">")
	if open < 0 || end < open+3 {
		return "", fmt.Errorf("no type argument in %q", sig)
	}
	return sig[open+2 : end-1], nil
}

// fill walks cls and its ancestors and returns the first metadata index
// available to subclasses of cls
func (w *metadataWalker) fill(cls string) (int, error) {
	if cls == NoSuperclass {
		return 0, nil
	}
	parent, err := w.hierarchy.Parent(cls)
	if err != nil {
		return 0, err
	}
	if metadata, ok := w.metadataByClass[cls]; ok {
		start, err := w.fill(parent)
		if err != nil {
			return 0, err
		}
		return start + len(metadata), nil
	}

	cf, err := w.repo.Load(cls)
	if err != nil {
		return 0, err
	}
	index, err := w.fill(parent)
	if err != nil {
		return 0, err
	}

	keys := &metadataKeyObserver{walker: w, class: cls, index: index}
	if clinit := cf.Method("<clinit>"); clinit != nil {
		if _, err := symexec.Walk(cf, clinit, keys); err != nil {
			return 0, err
		}
		index = keys.index
	}

	defaults := &metadataDefaultsObserver{walker: w, class: cls, metadata: keys.metadata}
	register := cf.FindMethods(func(m *classfile.Method) bool {
		return m.Name == w.registerDataName && m.Descriptor == registerDataDesc
	})
	switch {
	case len(register) > 0 && !register[0].AccessFlags.IsAbstract():
		if _, err := symexec.Walk(cf, register[0], defaults); err != nil {
			return 0, err
		}
	case cls == w.baseEntity:
		// the base entity registers its keys in the constructor, right after creating the data manager
		if init := cf.Method("<init>"); init != nil {
			defaults.waitingForPutfield = true
			if _, err := symexec.Walk(cf, init, defaults); err != nil {
				return 0, err
			}
		}
	}

	w.metadataByClass[cls] = keys.metadata
	return index, nil
}

// layout returns the metadata of an entity class: a marker for the closest
// entity ancestor, then the data of abstract ancestors, then its own data
func (w *metadataWalker) layout(cls string) ([]any, error) {
	var out []any
	if data := w.metadataByClass[cls]; len(data) > 0 {
		out = append(out, metadataGroup(cls, data))
	}
	parent, err := w.hierarchy.Parent(cls)
	if err != nil {
		return nil, err
	}
	for parent != NoSuperclass {
		if _, isEntity := w.entityClasses[parent]; isEntity {
			break
		}
		if data := w.metadataByClass[parent]; len(data) > 0 {
			out = slices.Insert(out, 0, any(metadataGroup(parent, data)))
		}
		if parent, err = w.hierarchy.Parent(parent); err != nil {
			return nil, err
		}
	}
	if name, isEntity := w.entityClasses[parent]; isEntity {
		// always present, even when that entity adds no data itself
		out = slices.Insert(out, 0, any(map[string]any{
			"class":  parent,
			"entity": name,
		}))
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

func metadataGroup(cls string, data []*metadataEntry) map[string]any {
	entries := make([]any, 0, len(data))
	for _, e := range data {
		entries = append(entries, e.toMap())
	}
	return map[string]any{
		"class": cls,
		"data":  entries,
	}
}

// metadataKeyObserver collects the createKey calls of a static initializer
type metadataKeyObserver struct {
	symexec.NopObserver
	walker   *metadataWalker
	class    string
	index    int
	metadata []*metadataEntry
}

func (o *metadataKeyObserver) Invoke(ref symexec.MemberRef, receiver symexec.Value, args []symexec.Value) (symexec.Value, error) {
	w := o.walker
	if !ref.Is(w.classes.Metadata, w.createKey.Name, w.createKey.Descriptor) {
		return o.NopObserver.Invoke(ref, receiver, args)
	}
	// entities should only create keys for themselves; some versions got this wrong for potions
	if lit, ok := args[0].(symexec.ClassLiteral); !ok || lit.Name != o.class {
		other := fmt.Sprint(args[0])
		if ok {
			other = lit.Name
		}
		w.logger.Warnf("An entity tried to register metadata for another entity: %s (%s) from %s (%s)",
			entityName(w.entityClasses, other), other, entityName(w.entityClasses, o.class), o.class)
	}
	s, ok := payload[*serializer](args[1])
	if !ok {
		return nil, fmt.Errorf("unknown serializer %v for a key of %s", args[1], o.class)
	}
	if !s.registered {
		return nil, fmt.Errorf("serializer %s is never registered", s.Field)
	}
	entry := &metadataEntry{
		SerializerID: s.ID,
		Serializer:   s.ID,
		Index:        o.index,
	}
	if s.Name != "" {
		entry.Serializer = s.Name
	}
	o.index++
	o.metadata = append(o.metadata, entry)
	return symexec.Semantic{Payload: entry}, nil
}

func (o *metadataKeyObserver) WriteField(ref symexec.MemberRef, _ symexec.Value, value symexec.Value) error {
	if entry, ok := payload[*metadataEntry](value); ok {
		entry.Field = ref.Name
	}
	return nil
}

func (o *metadataKeyObserver) ReadField(ref symexec.MemberRef, receiver symexec.Value) (symexec.Value, error) {
	if ref.Owner == o.walker.dataSerializers {
		s, ok := o.walker.serializersByField[ref.Name]
		if !ok {
			return nil, fmt.Errorf("unknown serializer field %s", ref)
		}
		return symexec.Semantic{Payload: s}, nil
	}
	return o.NopObserver.ReadField(ref, receiver)
}

func entityName(classes map[string]string, cls string) string {
	if name, ok := classes[cls]; ok {
		return name
	}
	return "Unknown"
}

// textComponent is a text component under construction; the constructor fills in the text
type textComponent map[string]any

// metadataDefaultsObserver reads the default values passed to the data
// manager's register method
type metadataDefaultsObserver struct {
	symexec.NopObserver
	walker   *metadataWalker
	class    string
	metadata []*metadataEntry
	// set while waiting for "this.dataManager = new DataManager(this)" in the base entity constructor
	waitingForPutfield bool
}

func (o *metadataDefaultsObserver) managerDesc() string {
	return "L" + o.walker.classes.Metadata + ";"
}

func (o *metadataDefaultsObserver) Invoke(ref symexec.MemberRef, receiver symexec.Value, args []symexec.Value) (symexec.Value, error) {
	w := o.walker
	if o.waitingForPutfield {
		return o.NopObserver.Invoke(ref, receiver, args)
	}
	switch {
	case strings.Contains(ref.Owner, "Optional"):
		if ref.Name == "absent" || ref.Name == "empty" {
			return symexec.Semantic{Payload: "Empty"}, nil
		}
		if len(args) == 1 {
			// Optional.of and friends
			return args[0], nil
		}
	case ref.Name == "valueOf" && len(args) == 1:
		// boxing
		if ref.Owner == "java/lang/Boolean" {
			if n, ok := symexec.AsInt(args[0]); ok {
				return symexec.Semantic{Payload: n != 0}, nil
			}
		}
		return args[0], nil
	case ref.Name == "<init>":
		if ref.Owner == w.textComponentClass && len(args) > 0 {
			if text, ok := payload[textComponent](receiver); ok {
				text["text"] = symexec.Plain(args[0])
			}
		}
		return nil, nil
	case ref.Owner == w.classes.Metadata:
		if !ref.Is("", w.register.Name, w.register.Descriptor) {
			return nil, fmt.Errorf("unexpected data manager call %s", ref)
		}
		entry, ok := payload[*metadataEntry](args[0])
		if ok && !symexec.IsNull(args[1]) {
			if def := symexec.Plain(args[1]); def != nil {
				if text, ok := def.(textComponent); ok {
					def = map[string]any(maps.Clone(text))
				}
				entry.Default = def
				entry.hasDefault = true
			}
		}
		return nil, nil
	case strings.HasSuffix(ref.Descriptor, o.managerDesc()):
		// getDataManager
		return symexec.Null, nil
	case ref.Name == w.registerDataName && ref.Descriptor == registerDataDesc:
		// super.registerData()
		return nil, nil
	}
	return o.NopObserver.Invoke(ref, receiver, args)
}

func (o *metadataDefaultsObserver) WriteField(ref symexec.MemberRef, _ symexec.Value, _ symexec.Value) error {
	if ref.Descriptor != o.managerDesc() {
		return nil
	}
	if !o.waitingForPutfield {
		return fmt.Errorf("unexpected write of the data manager field %s", ref)
	}
	o.waitingForPutfield = false
	return nil
}

func (o *metadataDefaultsObserver) ReadField(ref symexec.MemberRef, receiver symexec.Value) (symexec.Value, error) {
	w := o.walker
	if o.waitingForPutfield {
		return o.NopObserver.ReadField(ref, receiver)
	}
	switch {
	case ref.Descriptor == "L"+w.dataParameter+";":
		if ref.Owner != o.class {
			return nil, fmt.Errorf("%s registers a key declared by %s", o.class, ref.Owner)
		}
		for _, entry := range o.metadata {
			if entry.Field == ref.Name {
				return symexec.Semantic{Payload: entry}, nil
			}
		}
		w.logger.Warnf("Can't figure out metadata entry for field %s; default will not be set.", ref)
	case w.classes.Position != "" && ref.Owner == w.classes.Position:
		// BlockPos.ORIGIN
		return symexec.Semantic{Payload: "(0, 0, 0)"}, nil
	case ref.Owner == w.classes.ItemStack:
		// ItemStack.EMPTY
		return symexec.Semantic{Payload: "Empty"}, nil
	}
	return symexec.Null, nil
}

func (o *metadataDefaultsObserver) Instantiate(class string) (symexec.Value, error) {
	w := o.walker
	if o.waitingForPutfield {
		return nil, nil
	}
	if w.textComponentClass == "" && w.hierarchy.Contains(class) {
		if cf, err := w.repo.Load(class); err == nil {
			for _, s := range cf.Constants.Strings() {
				if strings.Contains(s, "TextComponent{text=") {
					w.textComponentClass = class
					break
				}
			}
		}
	}
	switch class {
	case w.classes.NBTCompound:
		return symexec.Semantic{Payload: "Empty"}, nil
	case w.textComponentClass:
		return symexec.Semantic{Payload: textComponent{"text": nil}}, nil
	}
	return nil, nil
}
