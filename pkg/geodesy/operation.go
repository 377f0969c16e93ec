package geodesy

import "fmt"

// OperationMethod identifies the algorithm of a conversion or transformation
// by name and authority code, e.g. Transverse Mercator = EPSG:9807.
type OperationMethod struct {
	info ObjectInfo
}

// NewOperationMethod builds a method descriptor.
func NewOperationMethod(info ObjectInfo) OperationMethod { return OperationMethod{info: info} }

// Info returns the identification fields.
func (m OperationMethod) Info() ObjectInfo { return m.info }

// Parameter carries an operation parameter: name plus authority code and
// either a numeric value with unit or an opaque string value, never both.
type Parameter struct {
	name        string
	id          Identifier
	value       float64
	unit        UnitOfMeasure
	stringValue string
	isString    bool
}

// NewParameter builds a numeric parameter.
func NewParameter(name string, id Identifier, value float64, unit UnitOfMeasure) Parameter {
	return Parameter{name: name, id: id, value: value, unit: unit}
}

// NewStringParameter builds an opaque string-valued parameter (grid file
// names and similar).
func NewStringParameter(name string, id Identifier, value string) Parameter {
	return Parameter{name: name, id: id, stringValue: value, isString: true}
}

// Name returns the parameter name.
func (p Parameter) Name() string { return p.name }

// Identifier returns the (authority, code) pair, possibly zero.
func (p Parameter) Identifier() Identifier { return p.id }

// Value returns the numeric value and its unit; ok is false for string
// parameters.
func (p Parameter) Value() (value float64, unit UnitOfMeasure, ok bool) {
	if p.isString {
		return 0, UnitOfMeasure{}, false
	}
	return p.value, p.unit, true
}

// StringValue returns the opaque value; ok is false for numeric parameters.
func (p Parameter) StringValue() (string, bool) {
	if !p.isString {
		return "", false
	}
	return p.stringValue, true
}

// CoordinateOperation is the closed set of operation variants.
type CoordinateOperation interface {
	Object
	// SourceCRS returns the operation source, nil for a bare conversion.
	SourceCRS() CRS
	// TargetCRS returns the operation target, nil for a bare conversion.
	TargetCRS() CRS
	// Accuracy returns the positional accuracy in metres; ok is false when
	// unknown (conversions are exact and report unknown by convention).
	Accuracy() (float64, bool)
	// GridsUsed lists required correction grid files, empty when none.
	GridsUsed() []string
	// Area returns the declared area of use, nil when unrestricted.
	Area() *AreaOfUse
	opTag()
}

// Conversion is a deterministic, datum-preserving operation defined by a
// method and parameter list, e.g. a map projection.
type Conversion struct {
	info   ObjectInfo
	method OperationMethod
	params []Parameter
	area   *AreaOfUse
}

// NewConversion builds a conversion.
func NewConversion(info ObjectInfo, method OperationMethod, params []Parameter) Conversion {
	return Conversion{info: info, method: method, params: append([]Parameter(nil), params...)}
}

// WithArea returns a copy declaring an area of use.
func (c Conversion) WithArea(area AreaOfUse) Conversion {
	c.area = &area
	return c
}

// Info returns the identification fields.
func (c Conversion) Info() ObjectInfo { return c.info }

// Method returns the operation method.
func (c Conversion) Method() OperationMethod { return c.method }

// Parameters returns the ordered parameter list.
func (c Conversion) Parameters() []Parameter { return append([]Parameter(nil), c.params...) }

// ParameterIndex returns the index of the named parameter, -1 when absent.
func (c Conversion) ParameterIndex(name string) int {
	for i, p := range c.params {
		if p.name == name {
			return i
		}
	}
	return -1
}

// ParameterAt returns the parameter at index, failing for out-of-range
// indexes.
func (c Conversion) ParameterAt(index int) (Parameter, error) {
	if index < 0 || index >= len(c.params) {
		return Parameter{}, fmt.Errorf("%w: parameter index %d out of range [0,%d)", ErrInvalidArgument, index, len(c.params))
	}
	return c.params[index], nil
}

// SourceCRS returns nil; a bare conversion has no CRS endpoints.
func (c Conversion) SourceCRS() CRS { return nil }

// TargetCRS returns nil.
func (c Conversion) TargetCRS() CRS { return nil }

// Accuracy reports unknown: conversions are exact by definition and carry no
// accuracy figure.
func (c Conversion) Accuracy() (float64, bool) { return 0, false }

// GridsUsed returns nil; conversions use no correction grids.
func (c Conversion) GridsUsed() []string { return nil }

// Area returns the declared area of use, nil when unrestricted.
func (c Conversion) Area() *AreaOfUse { return c.area }

func (Conversion) opTag() {}

// Transformation is an operation between different datums with a finite,
// possibly unknown, accuracy and optional required grid files.
type Transformation struct {
	info        ObjectInfo
	source      CRS
	target      CRS
	method      OperationMethod
	params      []Parameter
	accuracy    float64
	hasAccuracy bool
	grids       []string
	area        *AreaOfUse
	inverted    bool
}

// NewTransformation builds a transformation between source and target CRS.
func NewTransformation(info ObjectInfo, source, target CRS, method OperationMethod, params []Parameter) Transformation {
	return Transformation{info: info, source: source, target: target, method: method, params: append([]Parameter(nil), params...)}
}

// WithAccuracy returns a copy declaring a positional accuracy in metres.
func (t Transformation) WithAccuracy(metres float64) Transformation {
	t.accuracy = metres
	t.hasAccuracy = true
	return t
}

// WithGrids returns a copy declaring required grid files.
func (t Transformation) WithGrids(grids ...string) Transformation {
	t.grids = append([]string(nil), grids...)
	return t
}

// WithArea returns a copy declaring an area of use.
func (t Transformation) WithArea(area AreaOfUse) Transformation {
	t.area = &area
	return t
}

// Info returns the identification fields.
func (t Transformation) Info() ObjectInfo { return t.info }

// Method returns the operation method.
func (t Transformation) Method() OperationMethod { return t.method }

// Parameters returns the ordered parameter list.
func (t Transformation) Parameters() []Parameter { return append([]Parameter(nil), t.params...) }

// SourceCRS returns the source endpoint.
func (t Transformation) SourceCRS() CRS { return t.source }

// TargetCRS returns the target endpoint.
func (t Transformation) TargetCRS() CRS { return t.target }

// Accuracy returns the declared accuracy in metres, ok false when unknown.
func (t Transformation) Accuracy() (float64, bool) { return t.accuracy, t.hasAccuracy }

// GridsUsed lists required grid files.
func (t Transformation) GridsUsed() []string { return append([]string(nil), t.grids...) }

// Area returns the declared area of use, nil when unrestricted.
func (t Transformation) Area() *AreaOfUse { return t.area }

// Inverted reports whether this transformation is the inverse of a
// registered one.
func (t Transformation) Inverted() bool { return t.inverted }

func (Transformation) opTag() {}

// Inverse returns the reversed transformation, named "Inverse of <name>"
// (or unwrapped back to the original when already inverted), with endpoints
// swapped and accuracy preserved.
func (t Transformation) Inverse() Transformation {
	inv := t
	inv.source, inv.target = t.target, t.source
	inv.inverted = !t.inverted
	if t.inverted {
		inv.info = NewObjectInfo(t.info.Name()[len("Inverse of "):]).WithDeprecated(t.info.Deprecated())
	} else {
		inv.info = NewObjectInfo("Inverse of " + t.info.Name()).WithDeprecated(t.info.Deprecated())
	}
	return inv
}

// ConcatenatedOperation chains operations; the target of step i is the
// source of step i+1.
type ConcatenatedOperation struct {
	info  ObjectInfo
	steps []CoordinateOperation
	area  *AreaOfUse
}

// NewConcatenatedOperation composes ordered steps into a single operation.
// The name defaults to the step names joined with " + ". Adjacent steps must
// agree on their shared CRS endpoint when both declare one.
func NewConcatenatedOperation(info ObjectInfo, steps []CoordinateOperation) (ConcatenatedOperation, error) {
	if len(steps) < 2 {
		return ConcatenatedOperation{}, fmt.Errorf("%w: concatenated operation needs at least 2 steps, got %d", ErrInvalidArgument, len(steps))
	}
	for i := 0; i+1 < len(steps); i++ {
		out := steps[i].TargetCRS()
		in := steps[i+1].SourceCRS()
		if out != nil && in != nil && !EqualEquivalent(out, in) {
			return ConcatenatedOperation{}, fmt.Errorf("%w: step %d target %q does not match step %d source %q",
				ErrInvalidArgument, i, NameOf(out), i+1, NameOf(in))
		}
	}
	if info.Name() == "" {
		names := make([]string, len(steps))
		for i, s := range steps {
			names[i] = NameOf(s)
		}
		info = NewObjectInfo(joinStrings(names, " + "))
	}
	return ConcatenatedOperation{info: info, steps: append([]CoordinateOperation(nil), steps...)}, nil
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// WithArea returns a copy declaring an area of use.
func (c ConcatenatedOperation) WithArea(area AreaOfUse) ConcatenatedOperation {
	c.area = &area
	return c
}

// Info returns the identification fields.
func (c ConcatenatedOperation) Info() ObjectInfo { return c.info }

// Steps returns the ordered step operations.
func (c ConcatenatedOperation) Steps() []CoordinateOperation {
	return append([]CoordinateOperation(nil), c.steps...)
}

// SourceCRS returns the first step source.
func (c ConcatenatedOperation) SourceCRS() CRS { return c.steps[0].SourceCRS() }

// TargetCRS returns the last step target.
func (c ConcatenatedOperation) TargetCRS() CRS { return c.steps[len(c.steps)-1].TargetCRS() }

// Accuracy sums the step accuracies; unknown when any step is unknown,
// except that exact conversions contribute zero.
func (c ConcatenatedOperation) Accuracy() (float64, bool) {
	total := 0.0
	for _, s := range c.steps {
		if _, isConv := s.(Conversion); isConv {
			continue
		}
		acc, ok := s.Accuracy()
		if !ok {
			return 0, false
		}
		total += acc
	}
	return total, true
}

// GridsUsed unions the step grids in step order.
func (c ConcatenatedOperation) GridsUsed() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, s := range c.steps {
		for _, g := range s.GridsUsed() {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// Area returns the declared area of use, nil when unrestricted.
func (c ConcatenatedOperation) Area() *AreaOfUse { return c.area }

func (ConcatenatedOperation) opTag() {}
