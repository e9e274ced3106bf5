package virtual

import "reflect"

// KeyFunc derives a stable identity for an item.
type KeyFunc[T any] func(item T, index int) Key

// KeyPolicy decides how item keys are resolved. The zero value keys items by
// position.
type KeyPolicy[T any] struct {
	field string
	fn    KeyFunc[T]
}

// KeyByIndex keys items by their position in the collection.
func KeyByIndex[T any]() KeyPolicy[T] {
	return KeyPolicy[T]{}
}

// KeyByField keys items by the named struct field (or map entry for
// map[string]V items). Pointers are followed.
func KeyByField[T any](name string) KeyPolicy[T] {
	return KeyPolicy[T]{field: name}
}

// KeyByFunc keys items with fn.
func KeyByFunc[T any](fn KeyFunc[T]) KeyPolicy[T] {
	return KeyPolicy[T]{fn: fn}
}

// Resolve returns the key for item at index. Items whose key is missing, nil,
// or not comparable fall back to their position. Comparability is checked on
// the dynamic value, so a struct key holding a slice in an interface field
// also falls back.
func (p KeyPolicy[T]) Resolve(item T, index int) Key {
	var key Key
	switch {
	case p.fn != nil:
		key = p.fn(item, index)
	case p.field != "":
		key = fieldValue(item, p.field)
	}
	if key == nil || !reflect.ValueOf(key).Comparable() {
		return indexKey(index)
	}
	return key
}

func fieldValue(item any, name string) Key {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		f := v.FieldByName(name)
		if !f.IsValid() || !f.CanInterface() {
			return nil
		}
		v = f
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		f := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !f.IsValid() {
			return nil
		}
		v = f
	default:
		return nil
	}

	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return v.Interface()
}
