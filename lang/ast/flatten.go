package ast

import "reflect"

// Flatten collapses arbitrarily nested slices into one slice holding every
// non-slice element in depth-first, left-to-right order. Strings and byte
// slices are elements, not sequences.
//
//	Flatten([]any{1, []any{2, []int{3, 4}}, 5}) // [1 2 3 4 5]
func Flatten(v ...any) []any {
	out := make([]any, 0, len(v))

	for _, e := range v {
		out = flatten(out, e)
	}

	return out
}

// FlattenAs flattens v and keeps only the elements of type T.
func FlattenAs[T any](v ...any) []T {
	all := Flatten(v...)
	out := make([]T, 0, len(all))

	for _, e := range all {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}

	return out
}

func flatten(out []any, e any) []any {
	rv := reflect.ValueOf(e)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return append(out, e)
	}

	for i := range rv.Len() {
		out = flatten(out, rv.Index(i).Interface())
	}

	return out
}
