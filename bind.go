package dynamic

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

var validate = validator.New()

// Decode copies d into dst through its JSON form, so struct fields bind
// by json tag against the sanitized keys. When dst points to a struct it
// is then checked against its `validate` tags; validation failures wrap
// validator.ValidationErrors.
//
//	type Address struct {
//	    City string `json:"city" validate:"required"`
//	}
//	var addr Address
//	err := d.Decode(&addr)
func (d *Dynamic) Decode(dst any) error {
	data, err := d.MarshalJSON()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("dynamic: decode into %T: %w", dst, err)
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct {
		if err := validate.Struct(dst); err != nil {
			return fmt.Errorf("dynamic: validate %T: %w", dst, err)
		}
	}
	return nil
}
