package maps

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// TagName is the struct tag naming the map key of a field
const TagName = "field"

// GetOrBlank returns the value for the given key, or an empty string if the key is absent
func GetOrBlank(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return ""
}

// Decode populates the struct pointed to by out from the given string map in a single pass.
// Struct fields are matched by their `field` tag, case sensitive; fields whose key is absent keep their zero value.
func Decode(in map[string]string, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		Result:  out,
	})
	if err != nil {
		return errors.Wrap(err, "cannot create decoder")
	}
	if err := dec.Decode(exactKeys(in, out)); err != nil {
		return errors.Wrap(err, "cannot decode fields")
	}
	return nil
}

// exactKeys keeps the entries of in whose key is the tag of a field of the struct pointed to by out.
// mapstructure falls back to case insensitive matching, "@ID" must not fill "@id".
func exactKeys(in map[string]string, out interface{}) map[string]string {
	t := reflect.TypeOf(out)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return in
	}
	t = t.Elem()
	res := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key := strings.Split(t.Field(i).Tag.Get(TagName), ",")[0]
		if key == "" {
			continue
		}
		if v, ok := in[key]; ok {
			res[key] = v
		}
	}
	return res
}
