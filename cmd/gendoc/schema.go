package main

import (
	"path"
	"reflect"
	"strings"

	"github.com/swaggest/jsonschema-go"
	"go.bug.st/f"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/figgen/figgen-cli/internal/layout"
)

func stripPackagePrefix(t reflect.Type, defaultDefName string) string {
	caser := cases.Title(language.English)
	pkgName := caser.String(path.Base(t.PkgPath()))
	if s, found := strings.CutPrefix(defaultDefName, pkgName); found {
		return s
	}
	return defaultDefName
}

// LayoutSchema describes the JSON the generation model is asked to return.
func LayoutSchema() (jsonschema.Schema, error) {
	r := jsonschema.Reflector{}
	return r.Reflect(layout.Response{},
		jsonschema.InterceptDefName(stripPackagePrefix),
		jsonschema.InterceptSchema(func(params jsonschema.InterceptSchemaParams) (stop bool, err error) {
			switch params.Value.Type() {
			case reflect.TypeOf(layout.Dimension{}):
				*params.Schema = jsonschema.Schema{}
				params.Schema.AddType(jsonschema.Number)
				params.Schema.AddType(jsonschema.String)
				params.Schema.WithDescription(`A size in pixels, or "auto" to size by content.`)
				return true, nil
			case reflect.TypeOf(layout.Kind("")):
				params.Schema.AddType(jsonschema.String)
				params.Schema.Enum = f.Map(layout.Kind("").AllowedKinds(), func(k layout.Kind) any { return k })
				return true, nil
			}
			return false, nil
		}),
	)
}
