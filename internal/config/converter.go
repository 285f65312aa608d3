package config

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// TagName is the struct tag that maps an argument name onto a field, e.g.
// `flow:"base_url"` or `flow:"timeout,optional"`.
const TagName = "flow"

var ctyValueType = reflect.TypeOf(cty.Value{})

// Converter binds evaluated argument values onto Go structs.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

type fieldSpec struct {
	index    int
	name     string
	optional bool
}

// DecodeArguments populates the tagged fields of the struct target points to.
// A missing argument is an error unless the field is tagged optional, in
// which case the field keeps its current value. Arguments with no matching
// field are rejected.
func (c *Converter) DecodeArguments(ctx context.Context, target any, args map[string]cty.Value) error {
	logger := ctxlog.FromContext(ctx)

	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Pointer || structVal.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", target)
	}
	structVal = structVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct, got %T", target)
	}

	fields := fieldSpecs(structVal.Type())
	known := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		known[f.name] = struct{}{}
		fieldVal := structVal.Field(f.index)

		val, provided := args[f.name]
		if !provided {
			if !f.optional {
				return fmt.Errorf("missing required argument %q", f.name)
			}
			continue
		}
		if err := c.decode(ctx, val, fieldVal); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", f.name, err)
		}
	}

	var unknown []string
	for name := range args {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unsupported argument(s): %s", strings.Join(unknown, ", "))
	}

	logger.Debug("Decoded arguments.", "target", fmt.Sprintf("%T", target), "count", len(args))
	return nil
}

func fieldSpecs(t reflect.Type) []fieldSpec {
	var specs []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get(TagName)
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		spec := fieldSpec{index: i, name: parts[0]}
		for _, opt := range parts[1:] {
			if opt == "optional" {
				spec.optional = true
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

// decode converts val to the field's Go type and stores it.
func (c *Converter) decode(ctx context.Context, val cty.Value, fieldVal reflect.Value) error {
	logger := ctxlog.FromContext(ctx)

	switch {
	case fieldVal.Type() == ctyValueType:
		fieldVal.Set(reflect.ValueOf(val))
		return nil
	case fieldVal.Kind() == reflect.Interface:
		native, err := ToNative(val)
		if err != nil {
			return err
		}
		if native == nil {
			fieldVal.Set(reflect.Zero(fieldVal.Type()))
			return nil
		}
		nv := reflect.ValueOf(native)
		if !nv.Type().AssignableTo(fieldVal.Type()) {
			return fmt.Errorf("cannot assign %T to %s", native, fieldVal.Type())
		}
		fieldVal.Set(nv)
		return nil
	}

	goPtr := fieldVal.Addr().Interface()
	impliedType, err := gocty.ImpliedType(fieldVal.Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", fieldVal.Type().String(), "error", err)
		return gocty.FromCtyValue(val, goPtr)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if !val.Type().Equals(convertedVal.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", convertedVal.Type().FriendlyName(),
		)
	}
	return gocty.FromCtyValue(convertedVal, goPtr)
}
