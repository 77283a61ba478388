package xlogpub

import "reflect"

// TypeName returns the fully-qualified type name of v, e.g.
// "github.com/acme/router.Session". Pointers are dereferenced; builtin and
// unnamed types return their Go syntax. nil yields "".
func TypeName(v any) string {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
