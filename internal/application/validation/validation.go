// Package validation valida DTOs con go-playground/validator y traduce el primer fallo a
// domain.ValidationError usando el nombre JSON del campo.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// decimal.Decimal se valida como float64 para poder usar gte/gt/lte.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		instance = v
	})
	return instance
}

// Struct valida s y devuelve *domain.ValidationError con el primer campo inválido.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Invalid("body", err.Error())
	}
	fe := verrs[0]
	return &domain.ValidationError{Field: fieldPath(fe), Reason: reason(fe)}
}

// fieldPath quita el nombre del struct raíz: "ProductRequest.variations[0].size" -> "variations[0].size".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es requerido"
	case "min":
		if e.Kind() == reflect.Slice {
			return "debe tener al menos " + e.Param() + " elemento(s)"
		}
		return "debe ser al menos " + e.Param()
	case "max":
		return "debe ser como máximo " + e.Param()
	case "gte":
		return "debe ser mayor o igual a " + e.Param()
	case "gt":
		return "debe ser mayor que " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "email":
		return "formato de email inválido"
	case "uuid":
		return "UUID inválido"
	default:
		return "valor inválido"
	}
}
