package coords

import "reflect"

// Each calls fn for every item of a sequence value until fn returns false.
// Slices, arrays (through pointers), receive channels and iter.Seq shaped
// functions are sequences; Each reports false for anything else.
// Lazy sources are pulled item by item, nothing is buffered.
func Each(v any, fn func(item any) bool) bool {
	rv, ok := sequenceValue(v)
	if !ok {
		return false
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !fn(rv.Index(i).Interface()) {
				break
			}
		}

	case reflect.Chan:
		for {
			item, ok := rv.Recv()
			if !ok || !fn(item.Interface()) {
				break
			}
		}

	case reflect.Func:
		yieldType := rv.Type().In(0)
		yield := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			more := reflect.ValueOf(fn(args[0].Interface())).Convert(yieldType.Out(0))
			return []reflect.Value{more}
		})
		rv.Call([]reflect.Value{yield})
	}

	return true
}

// isLazy reports whether v is a channel or an iter.Seq shaped function.
func isLazy(v any) bool {
	if v == nil {
		return false
	}
	return lazyValue(reflect.ValueOf(v))
}

// materialize drains a lazy sequence into a slice.
func materialize(v any) []any {
	items := []any{}
	Each(v, func(item any) bool {
		items = append(items, item)
		return true
	})
	return items
}

// sequenceItems returns the items of an eager sequence (slice or array, through pointers).
func sequenceItems(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}

	rv, ok := sequenceValue(v)
	if !ok || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func sequenceValue(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	case reflect.Chan, reflect.Func:
		return rv, lazyValue(rv)
	}
	return reflect.Value{}, false
}

func lazyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Chan:
		return !rv.IsNil() && rv.Type().ChanDir()&reflect.RecvDir != 0

	case reflect.Func:
		if rv.IsNil() {
			return false
		}
		t := rv.Type()
		if t.NumIn() != 1 || t.NumOut() != 0 {
			return false
		}
		yield := t.In(0)
		return yield.Kind() == reflect.Func &&
			yield.NumIn() == 1 &&
			yield.NumOut() == 1 &&
			yield.Out(0).Kind() == reflect.Bool
	}
	return false
}
