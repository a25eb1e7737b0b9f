package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Generator converts Go parameter structs to JSON schemas.
//
// Recognised tags:
//
//	json:"name,omitempty"           property name
//	description:"..."               property description
//	schema:"required,enum:a|b,min:0,max:5,default:3"
//
// A property is required only when its schema tag says so.
type Generator struct {
	cache map[reflect.Type]map[string]interface{}
}

// NewGenerator creates a new schema generator
func NewGenerator() *Generator {
	return &Generator{
		cache: make(map[reflect.Type]map[string]interface{}),
	}
}

// Generate creates a JSON schema from a Go struct (or pointer to one)
func (g *Generator) Generate(v interface{}) (map[string]interface{}, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("expected struct, got nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", t.Kind())
	}

	if cached, ok := g.cache[t]; ok {
		return cached, nil
	}
	schema := g.generateObject(t)
	g.cache[t] = schema
	return schema, nil
}

// GenerateFunctionSchema creates an OpenAI-compatible function declaration
func (g *Generator) GenerateFunctionSchema(name, description string, params interface{}) (map[string]interface{}, error) {
	schema, err := g.Generate(params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for %s: %w", name, err)
	}

	return map[string]interface{}{
		"type": "function",
		"function": map[string]interface{}{
			"name":        name,
			"description": description,
			"parameters":  schema,
		},
	}, nil
}

func (g *Generator) generateObject(t reflect.Type) map[string]interface{} {
	properties := make(map[string]interface{})
	required := []string{}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		fieldName := FieldName(field)

		schemaTag := field.Tag.Get("schema")
		fieldSchema := g.generateFieldSchema(field.Type)

		if desc := field.Tag.Get("description"); desc != "" {
			fieldSchema["description"] = desc
		}

		opts := ParseTag(schemaTag)
		if opts.Required {
			required = append(required, fieldName)
			if fieldSchema["type"] == "array" {
				fieldSchema["minItems"] = 1
			}
		}
		opts.apply(fieldSchema)

		properties[fieldName] = fieldSchema
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func (g *Generator) generateFieldSchema(t reflect.Type) map[string]interface{} {
	schema := make(map[string]interface{})

	switch t.Kind() {
	case reflect.String:
		schema["type"] = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		schema["type"] = "integer"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema["type"] = "integer"
		schema["minimum"] = 0
	case reflect.Float32, reflect.Float64:
		schema["type"] = "number"
	case reflect.Bool:
		schema["type"] = "boolean"
	case reflect.Slice, reflect.Array:
		schema["type"] = "array"
		schema["items"] = g.generateFieldSchema(t.Elem())
	case reflect.Map:
		schema["type"] = "object"
		if t.Elem().Kind() != reflect.Interface {
			schema["additionalProperties"] = g.generateFieldSchema(t.Elem())
		}
	case reflect.Struct:
		if t == timeType {
			schema["type"] = "string"
			schema["format"] = "date-time"
		} else {
			return g.generateObject(t)
		}
	case reflect.Ptr:
		return g.generateFieldSchema(t.Elem())
	default:
		schema["type"] = "string"
	}

	return schema
}

// TagOptions is the parsed form of a schema struct tag
type TagOptions struct {
	Required bool
	Enum     []string
	Min      *float64
	Max      *float64
	Default  string
	HasDef   bool
}

// ParseTag parses a schema tag such as "required,enum:a|b,default:a"
func ParseTag(tag string) TagOptions {
	var opts TagOptions
	if tag == "" {
		return opts
	}

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "required":
			opts.Required = true
		case strings.HasPrefix(part, "enum:"):
			opts.Enum = strings.Split(part[len("enum:"):], "|")
		case strings.HasPrefix(part, "min:"):
			var f float64
			if err := json.Unmarshal([]byte(part[len("min:"):]), &f); err == nil {
				opts.Min = &f
			}
		case strings.HasPrefix(part, "max:"):
			var f float64
			if err := json.Unmarshal([]byte(part[len("max:"):]), &f); err == nil {
				opts.Max = &f
			}
		case strings.HasPrefix(part, "default:"):
			opts.Default = part[len("default:"):]
			opts.HasDef = true
		}
	}

	return opts
}

func (o TagOptions) apply(schema map[string]interface{}) {
	if len(o.Enum) > 0 {
		schema["enum"] = o.Enum
	}
	if o.Min != nil {
		schema["minimum"] = *o.Min
	}
	if o.Max != nil {
		schema["maximum"] = *o.Max
	}
	if o.HasDef {
		var def interface{}
		if err := json.Unmarshal([]byte(o.Default), &def); err == nil {
			schema["default"] = def
		} else {
			schema["default"] = o.Default
		}
	}
}

// FieldName returns the JSON property name of a struct field
func FieldName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return field.Name
	}

	name := strings.TrimSpace(strings.Split(jsonTag, ",")[0])
	if name == "" {
		return field.Name
	}

	return name
}
