package models

// Value is any JSON-representable value.
// The set of implementations is closed: Null, Bool, Number, String, Array and Object.
type Value interface {
	jsonValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// String is a JSON string. It may hold any text, including control characters.
type String string

// Array is an ordered JSON array.
type Array []Value

// Object is a JSON object. Members render in slice order; keys are not deduplicated.
type Object []Member

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

func (Null) jsonValue()   {}
func (Bool) jsonValue()   {}
func (Number) jsonValue() {}
func (String) jsonValue() {}
func (Array) jsonValue()  {}
func (Object) jsonValue() {}

// NullValue returns the JSON null value
func NullValue() Value { return Null{} }

// Boolean wraps a bool
func Boolean(b bool) Value { return Bool(b) }

// Str wraps a string
func Str(s string) Value { return String(s) }

// Arr builds an Array from the given elements
func Arr(values ...Value) Value { return Array(values) }

// Obj builds an Object from the given members, keeping their order
func Obj(members ...Member) Value { return Object(members) }

// Field builds an object member
func Field(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

// Get returns the value of the first member named key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the member keys in order, duplicates included.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// RenameKeys returns a copy of v with every object key passed through fn.
// v itself is left untouched.
func RenameKeys(v Value, fn func(string) string) Value {
	if fn == nil {
		return v
	}
	switch t := v.(type) {
	case Object:
		out := make(Object, len(t))
		for i, m := range t {
			out[i] = Member{Key: fn(m.Key), Value: RenameKeys(m.Value, fn)}
		}
		return out
	case Array:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = RenameKeys(e, fn)
		}
		return out
	default:
		return v
	}
}

// ErrorDetail describes one field-level problem and the steps a client can take to fix it.
type ErrorDetail struct {
	Field       string   `yaml:"field" json:"field"`
	Message     string   `yaml:"message" json:"message" validate:"required"`
	NextActions []string `yaml:"next_actions" json:"next_actions" validate:"dive,required"`
}

// NewErrorDetail creates an ErrorDetail. With no actions, NextActions is empty (not nil).
func NewErrorDetail(field, message string, nextActions ...string) ErrorDetail {
	actions := make([]string, len(nextActions))
	copy(actions, nextActions)
	return ErrorDetail{
		Field:       field,
		Message:     message,
		NextActions: actions,
	}
}
