package config

import (
	"reflect"
	"strings"
)

// envKeyToPath maps an upper-cased, underscore-joined environment variable
// suffix (with the AMASD_ prefix already stripped) to the koanf dotted path
// it should bind to, e.g. "STORE_VALUE_LOG_GC" -> "store.value_log_gc".
//
// A naive "replace every underscore with a dot" transform collapses
// multi-word leaf keys: AMASD_METRICS_LISTEN_ADDR would become
// "metrics.listen.addr" instead of the koanf tag "metrics.listen_addr", so
// the override is silently dropped. The table below is built once from
// Config's own koanf tags via reflection, the same exact-match approach the
// teacher's own config loader hand-maintains, without drifting out of sync
// as fields are added to Config.
var envKeyToPath = buildEnvKeyMap(reflect.TypeOf(Config{}))

func buildEnvKeyMap(t reflect.Type) map[string]string {
	m := make(map[string]string)
	walkKoanfTags(t, nil, m)
	return m
}

func walkKoanfTags(t reflect.Type, prefix []string, m map[string]string) {
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		path := append(append([]string{}, prefix...), tag)
		if field.Type.Kind() == reflect.Struct {
			walkKoanfTags(field.Type, path, m)
			continue
		}
		m[strings.ToUpper(strings.Join(path, "_"))] = strings.Join(path, ".")
	}
}
