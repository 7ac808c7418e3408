package parse

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dzjyyds666/cascade/parse/cascade"
	"github.com/goccy/go-yaml"
)

// ValuesKey holds the values of a key that also has children in the untyped
// form.
const ValuesKey = "="

// ToUntyped converts a tree to plain values for the YAML and JSON encoders:
//
//	no children      -> nil, the single scalar, or a list of scalars
//	only anonymous   -> a list, one item per element
//	anything else    -> an ordered map by effective name, values under "="
func ToUntyped(k *cascade.Key) any {
	if k.KeyCount() == 0 {
		return scalars(k)
	}
	anonymous := k.ValueCount() == 0
	for _, c := range k.Keys() {
		anonymous = anonymous && !c.HasName()
	}
	if anonymous {
		out := make([]any, 0, k.KeyCount())
		for _, c := range k.Keys() {
			out = append(out, ToUntyped(c))
		}
		return out
	}
	m := make(yaml.MapSlice, 0, k.KeyCount()+1)
	if k.ValueCount() > 0 {
		m = append(m, yaml.MapItem{Key: ValuesKey, Value: scalars(k)})
	}
	for _, c := range k.Keys() {
		m = append(m, yaml.MapItem{Key: c.EffectiveName(), Value: ToUntyped(c)})
	}
	return m
}

func scalars(k *cascade.Key) any {
	switch k.ValueCount() {
	case 0:
		return nil
	case 1:
		return k.ValueAt(0).Variant().Interface()
	}
	out := make([]any, 0, k.ValueCount())
	for _, v := range k.Variants() {
		out = append(out, v.Interface())
	}
	return out
}

// FromUntyped builds a tree from decoded YAML or JSON. Maps become records,
// lists of scalars become values and other lists become anonymous elements.
func FromUntyped(v any) *cascade.Key {
	root := cascade.NewKey("")
	fill(root, v)
	return root
}

func fill(k *cascade.Key, v any) {
	switch x := v.(type) {
	case nil:
	case yaml.MapSlice:
		for _, it := range x {
			name := fmt.Sprint(it.Key)
			if name == ValuesKey {
				fill(k, it.Value)
				continue
			}
			fill(k.GetOrCreateKey(name), it.Value)
		}
	case map[string]any:
		names := make([]string, 0, len(x))
		for n := range x {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			if n == ValuesKey {
				fill(k, x[n])
				continue
			}
			fill(k.GetOrCreateKey(n), x[n])
		}
	case []any:
		if allScalars(x) {
			for _, s := range x {
				k.AddValue(toVariant(s))
			}
			return
		}
		for _, e := range x {
			fill(k.CreateArrayKey(), e)
		}
	default:
		k.AddValue(toVariant(x))
	}
}

func allScalars(xs []any) bool {
	for _, x := range xs {
		switch x.(type) {
		case yaml.MapSlice, map[string]any, []any, nil:
			return false
		}
	}
	return true
}

// toVariant picks the narrowest scalar kind for a decoded value.
func toVariant(x any) cascade.Variant {
	switch n := x.(type) {
	case bool:
		return cascade.NewBool(n)
	case string:
		return cascade.NewString(n)
	case int:
		return cascade.ParseVariant(strconv.FormatInt(int64(n), 10))
	case int64:
		return cascade.ParseVariant(strconv.FormatInt(n, 10))
	case uint64:
		if n > 1<<63-1 {
			return cascade.NewULong(n)
		}
		return cascade.ParseVariant(strconv.FormatUint(n, 10))
	case float32:
		return cascade.NewFloat(n)
	case float64:
		return cascade.ParseVariant(cascade.NewDouble(n).String())
	}
	return cascade.NewString(fmt.Sprint(x))
}
