package shim

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/born-ml/born-norm/internal/functional"
)

// AttrType identifies which field of an Attribute holds its value.
type AttrType int

// Attribute value kinds.
const (
	AttrFloat AttrType = iota + 1
	AttrInt
	AttrInts
	AttrBool
)

// String returns the lower-case kind name.
func (t AttrType) String() string {
	switch t {
	case AttrFloat:
		return "float"
	case AttrInt:
		return "int"
	case AttrInts:
		return "ints"
	case AttrBool:
		return "bool"
	}
	return "untyped"
}

// Attribute is a named scalar or list argument of a Call.
type Attribute struct {
	Name string
	Type AttrType
	F    float64
	I    int64
	Ints []int64
	B    bool
}

// Float returns a float attribute.
func Float(name string, v float64) Attribute { return Attribute{Name: name, Type: AttrFloat, F: v} }

// Int returns an integer attribute.
func Int(name string, v int64) Attribute { return Attribute{Name: name, Type: AttrInt, I: v} }

// Ints returns an integer list attribute.
func Ints(name string, v ...int64) Attribute { return Attribute{Name: name, Type: AttrInts, Ints: v} }

// Bool returns a boolean attribute.
func Bool(name string, v bool) Attribute { return Attribute{Name: name, Type: AttrBool, B: v} }

// ParseAttribute parses "name=value". Values "true" and "false" are
// booleans, comma-separated or empty values are integer lists, and other
// values are integers when they parse as such and floats otherwise.
func ParseAttribute(s string) (Attribute, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Attribute{}, fmt.Errorf("attribute %q: expected name=value", s)
	}
	value = strings.TrimSpace(value)

	switch {
	case value == "true" || value == "false":
		return Bool(name, value == "true"), nil
	case value == "" || strings.Contains(value, ","):
		var list []int64
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return Attribute{}, fmt.Errorf("attribute %q: %w", name, err)
			}
			list = append(list, v)
		}
		return Ints(name, list...), nil
	}
	if v, err := strconv.ParseInt(value, 10, 64); err == nil {
		return Int(name, v), nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", name, err)
	}
	return Float(name, v), nil
}

// Call is a by-name invocation: input handles keyed by role
// ("input", "weight", "bias", "running_mean", "running_var", "indices")
// plus attributes.
type Call struct {
	Op         string
	Inputs     map[string]Handle
	Attributes []Attribute
}

// Input returns the handle for role, or Null when it was not supplied.
func (c *Call) Input(role string) Handle {
	return c.Inputs[role]
}

func (c *Call) attr(name string) (Attribute, bool) {
	for i := range c.Attributes {
		if c.Attributes[i].Name == name {
			return c.Attributes[i], true
		}
	}
	return Attribute{}, false
}

func mistyped(a Attribute, want string) error {
	return fmt.Errorf("attribute %q: %s value where %s expected", a.Name, a.Type, want)
}

// GetAttrFloat returns a float attribute or default value. Integer
// attributes are converted; any other type is an error.
func GetAttrFloat(call *Call, name string, defaultVal float64) (float64, error) {
	a, ok := call.attr(name)
	if !ok {
		return defaultVal, nil
	}
	switch a.Type {
	case AttrFloat:
		return a.F, nil
	case AttrInt:
		return float64(a.I), nil
	}
	return 0, mistyped(a, "float")
}

// GetAttrInt returns an integer attribute or default value.
func GetAttrInt(call *Call, name string, defaultVal int64) (int64, error) {
	a, ok := call.attr(name)
	if !ok {
		return defaultVal, nil
	}
	if a.Type != AttrInt {
		return 0, mistyped(a, "int")
	}
	return a.I, nil
}

// GetAttrInts returns an integer list attribute, or nil when absent. A
// single integer becomes a one-element list.
func GetAttrInts(call *Call, name string) ([]int64, error) {
	a, ok := call.attr(name)
	if !ok {
		return nil, nil
	}
	switch a.Type {
	case AttrInts:
		return a.Ints, nil
	case AttrInt:
		return []int64{a.I}, nil
	}
	return nil, mistyped(a, "ints")
}

// GetAttrBool returns a boolean attribute or default value. Integer
// attributes are true when non-zero.
func GetAttrBool(call *Call, name string, defaultVal bool) (bool, error) {
	a, ok := call.attr(name)
	if !ok {
		return defaultVal, nil
	}
	switch a.Type {
	case AttrBool:
		return a.B, nil
	case AttrInt:
		return a.I != 0, nil
	}
	return false, mistyped(a, "bool")
}

// attrs reads a Call's attributes and keeps the first conversion error, so
// a handler can read everything and check once.
type attrs struct {
	call *Call
	err  error
}

func (r *attrs) keep(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *attrs) float(name string, def float64) float64 {
	v, err := GetAttrFloat(r.call, name, def)
	r.keep(err)
	return v
}

func (r *attrs) int(name string, def int64) int64 {
	v, err := GetAttrInt(r.call, name, def)
	r.keep(err)
	return v
}

func (r *attrs) ints(name string) []int64 {
	v, err := GetAttrInts(r.call, name)
	r.keep(err)
	return v
}

func (r *attrs) bool(name string, def bool) bool {
	v, err := GetAttrBool(r.call, name, def)
	r.keep(err)
	return v
}

// OpHandler runs a Call against a session.
type OpHandler func(s *Session, call *Call) (Handle, error)

// Registry maps operation names to handlers.
type Registry struct {
	handlers map[string]OpHandler
}

// NewRegistry creates a registry with every normalization operation.
// Attributes of the wrong type fail the call before any kernel runs.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]OpHandler)}

	r.Register(OpBatchNorm, func(s *Session, c *Call) (Handle, error) {
		a := &attrs{call: c}
		training := a.bool("training", true)
		momentum := a.float("momentum", functional.DefaultMomentum)
		eps := a.float("eps", functional.DefaultEps)
		if a.err != nil {
			return Null, s.fail(c.Op, a.err)
		}
		return s.BatchNorm(c.Input("input"), c.Input("running_mean"), c.Input("running_var"),
			c.Input("weight"), c.Input("bias"), training, momentum, eps)
	})
	r.Register(OpGroupNorm, func(s *Session, c *Call) (Handle, error) {
		a := &attrs{call: c}
		groups := a.int("num_groups", 0)
		eps := a.float("eps", functional.DefaultEps)
		if a.err != nil {
			return Null, s.fail(c.Op, a.err)
		}
		return s.GroupNorm(c.Input("input"), groups, c.Input("weight"), c.Input("bias"), eps)
	})
	r.Register(OpInstanceNorm, func(s *Session, c *Call) (Handle, error) {
		a := &attrs{call: c}
		useInputStats := a.bool("use_input_stats", true)
		momentum := a.float("momentum", functional.DefaultMomentum)
		eps := a.float("eps", functional.DefaultEps)
		if a.err != nil {
			return Null, s.fail(c.Op, a.err)
		}
		return s.InstanceNorm(c.Input("input"), c.Input("running_mean"), c.Input("running_var"),
			c.Input("weight"), c.Input("bias"), useInputStats, momentum, eps)
	})
	r.Register(OpLayerNorm, func(s *Session, c *Call) (Handle, error) {
		a := &attrs{call: c}
		shape := a.ints("normalized_shape")
		eps := a.float("eps", functional.DefaultEps)
		if a.err != nil {
			return Null, s.fail(c.Op, a.err)
		}
		return s.LayerNorm(c.Input("input"), shape, c.Input("weight"), c.Input("bias"), eps)
	})
	r.Register(OpLocalResponseNorm, func(s *Session, c *Call) (Handle, error) {
		a := &attrs{call: c}
		size := a.int("size", 0)
		alpha := a.float("alpha", functional.DefaultLRNAlpha)
		beta := a.float("beta", functional.DefaultLRNBeta)
		k := a.float("k", functional.DefaultLRNK)
		if a.err != nil {
			return Null, s.fail(c.Op, a.err)
		}
		return s.LocalResponseNorm(c.Input("input"), size, alpha, beta, k)
	})
	r.Register(OpDropout3d, func(s *Session, c *Call) (Handle, error) {
		a := &attrs{call: c}
		p := a.float("p", functional.DefaultDropoutP)
		training := a.bool("training", true)
		inplace := a.bool("inplace", false)
		if a.err != nil {
			return Null, s.fail(c.Op, a.err)
		}
		return s.Dropout3d(c.Input("input"), p, training, inplace)
	})
	r.Register(OpMaxUnpool2d, func(s *Session, c *Call) (Handle, error) {
		a := &attrs{call: c}
		kernel := a.ints("kernel_size")
		stride := a.ints("stride")
		padding := a.ints("padding")
		outputSize := a.ints("output_size")
		if a.err != nil {
			return Null, s.fail(c.Op, a.err)
		}
		return s.MaxUnpool2d(c.Input("input"), c.Input("indices"), kernel, stride, padding, outputSize)
	})

	return r
}

// Register adds or replaces a handler.
func (r *Registry) Register(op string, handler OpHandler) {
	r.handlers[op] = handler
}

// Get returns the handler for op.
func (r *Registry) Get(op string) (OpHandler, bool) {
	h, ok := r.handlers[op]
	return h, ok
}

// Execute dispatches call by its Op name. An unknown name is reported
// through the session like any other failure.
func (r *Registry) Execute(s *Session, call *Call) (Handle, error) {
	handler, ok := r.handlers[call.Op]
	if !ok {
		return Null, s.fail(call.Op, fmt.Errorf("unsupported operation: %s", call.Op))
	}
	return handler(s, call)
}

// SupportedOps returns the registered operation names in sorted order.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
