// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct JSON tags match the CUE schema field names,
// so a renamed key cannot silently stop loading.

func cueFields(t *testing.T, def string) []string {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile schema: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath(def))
	if val.Err() != nil {
		t.Fatalf("definition %s not found: %v", def, val.Err())
	}

	iter, err := val.Fields(cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate %s: %v", def, err)
	}
	var fields []string
	for iter.Next() {
		fields = append(fields, strings.TrimSuffix(iter.Selector().String(), "?"))
	}
	slices.Sort(fields)
	return fields
}

func jsonFields(v any) []string {
	var fields []string
	typ := reflect.TypeOf(v)
	for i := range typ.NumField() {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, name)
	}
	slices.Sort(fields)
	return fields
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def string
		v   any
	}{
		{"#Config", Config{}},
		{"#ProjectConfig", ProjectConfig{}},
		{"#ClassifyConfig", ClassifyConfig{}},
		{"#DiscoveryConfig", DiscoveryConfig{}},
		{"#ConverterConfig", ConverterConfig{}},
		{"#UIConfig", UIConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()
			if got, want := jsonFields(tt.v), cueFields(t, tt.def); !slices.Equal(got, want) {
				t.Errorf("Go fields %v do not match CUE fields %v", got, want)
			}
		})
	}
}
