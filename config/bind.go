package config

import (
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// bindKeys walks the config struct and binds every mapstructure key to viper
// so AutomaticEnv can resolve nested keys during Unmarshal. Viper only reads
// environment variables for keys it already knows about.
func bindKeys(v *viper.Viper, cfg interface{}) {
	for _, key := range collectKeys(reflect.TypeOf(cfg), "") {
		_ = v.BindEnv(key)
	}
}

func collectKeys(t reflect.Type, prefix string) []string {
	for t != nil && (t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface) {
		if t.Kind() == reflect.Interface {
			return nil
		}
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("mapstructure")
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		ft := field.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			keys = append(keys, collectKeys(ft, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
