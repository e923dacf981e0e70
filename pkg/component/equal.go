package component

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

var (
	exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

	// samePointer treats two pointers to the same object as equal without
	// descending into it. Shared nodes often hold callbacks, which cmp never
	// considers equal.
	samePointer = cmp.FilterValues(func(x, y any) bool {
		vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
		return vx.Kind() == reflect.Pointer && vy.Kind() == reflect.Pointer &&
			vx.Type() == vy.Type() && vx.Pointer() == vy.Pointer()
	}, cmp.Ignore())
)

// deepEqual compares two computed values structurally, including
// unexported fields.
func deepEqual(a, b any) bool {
	return cmp.Equal(a, b, exportAll, samePointer)
}
