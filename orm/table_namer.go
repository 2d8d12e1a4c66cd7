package orm

import (
	"reflect"

	"github.com/mickamy/blogly/internal/naming"
)

// TableNamer overrides the table name derived from a type's name.
type TableNamer interface {
	TableName() string
}

// TableOf names the table for T: TableName when T or *T implements
// TableNamer, the plural snake_case of the type name otherwise.
func TableOf[T any]() string {
	var zero T
	if tn, ok := any(&zero).(TableNamer); ok {
		return tn.TableName()
	}
	return naming.Table(reflect.TypeFor[T]().Name())
}
