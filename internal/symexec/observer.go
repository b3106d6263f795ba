package symexec

// Observer interprets the operations of a walk that touch anything outside
// the method: field access, invocation, instantiation and invokedynamic.
//
// Hooks that produce a value return nil for "no value", in which case the
// evaluator pushes nothing. Returning an error aborts the walk.
type Observer interface {
	// Invoke is called after the receiver (nil for static calls) and arguments are popped.
	Invoke(ref MemberRef, receiver Value, args []Value) (Value, error)
	// ReadField is called after the receiver (nil for getstatic) is popped.
	ReadField(ref MemberRef, receiver Value) (Value, error)
	WriteField(ref MemberRef, receiver Value, value Value) error
	// Instantiate models "new T" before the constructor runs.
	Instantiate(class string) (Value, error)
	InvokeDynamic(ref DynamicRef, args []Value) (Value, error)
}

// NopObserver passes every operation through: results are fresh Opaque
// values of the declared type and writes are ignored. Embed it and override
// the hooks of interest.
type NopObserver struct{}

func (NopObserver) Invoke(ref MemberRef, _ Value, _ []Value) (Value, error) {
	if ref.Returns.IsVoid() {
		return nil, nil
	}
	return NewOpaque(ref.Returns.String()), nil
}

func (NopObserver) ReadField(ref MemberRef, _ Value) (Value, error) {
	return NewOpaque(ref.Descriptor), nil
}

func (NopObserver) WriteField(MemberRef, Value, Value) error {
	return nil
}

func (NopObserver) Instantiate(class string) (Value, error) {
	return NewOpaque("L" + class + ";"), nil
}

func (NopObserver) InvokeDynamic(ref DynamicRef, _ []Value) (Value, error) {
	return NewOpaque(ref.Returns.String()), nil
}
