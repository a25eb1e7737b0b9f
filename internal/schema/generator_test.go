package schema

import (
	"reflect"
	"testing"
)

type item struct {
	Original    string `json:"original" schema:"required"`
	Explanation string `json:"explanation,omitempty"`
}

type params struct {
	Type     string   `json:"type" schema:"required,enum:vocabulary|grammar" description:"Kind of hint"`
	Timing   *string  `json:"timing,omitempty" schema:"enum:immediate|later,default:immediate"`
	Priority *int     `json:"priority,omitempty" schema:"min:1,max:5,default:3"`
	Show     *bool    `json:"show,omitempty" schema:"default:true"`
	Delta    *float64 `json:"delta" schema:"required"`
	Items    []item   `json:"items" schema:"required"`
	Tags     []string `json:"tags,omitempty"`
	internal string
}

func TestGenerate_RequiredAndConstraints(t *testing.T) {
	g := NewGenerator()
	s, err := g.Generate(&params{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	required := s["required"].([]string)
	if !reflect.DeepEqual(required, []string{"type", "delta", "items"}) {
		t.Fatalf("unexpected required list %v", required)
	}

	props := s["properties"].(map[string]interface{})
	if _, ok := props["internal"]; ok {
		t.Fatalf("unexported field leaked into schema")
	}

	typ := props["type"].(map[string]interface{})
	if typ["description"] != "Kind of hint" {
		t.Fatalf("missing description: %v", typ)
	}
	if !reflect.DeepEqual(typ["enum"], []string{"vocabulary", "grammar"}) {
		t.Fatalf("unexpected enum %v", typ["enum"])
	}

	timing := props["timing"].(map[string]interface{})
	if timing["type"] != "string" || timing["default"] != "immediate" {
		t.Fatalf("pointer string not resolved: %v", timing)
	}

	priority := props["priority"].(map[string]interface{})
	if priority["type"] != "integer" || priority["minimum"] != float64(1) || priority["maximum"] != float64(5) || priority["default"] != float64(3) {
		t.Fatalf("unexpected priority schema %v", priority)
	}

	if props["show"].(map[string]interface{})["default"] != true {
		t.Fatalf("boolean default not decoded")
	}
	if props["delta"].(map[string]interface{})["type"] != "number" {
		t.Fatalf("delta should be a number")
	}

	items := props["items"].(map[string]interface{})
	if items["type"] != "array" || items["minItems"] != 1 {
		t.Fatalf("unexpected items schema %v", items)
	}
	elem := items["items"].(map[string]interface{})
	if !reflect.DeepEqual(elem["required"], []string{"original"}) {
		t.Fatalf("nested required not generated: %v", elem["required"])
	}
}

func TestGenerateFunctionSchema(t *testing.T) {
	g := NewGenerator()
	fn, err := g.GenerateFunctionSchema("addHint", "Add a hint", params{})
	if err != nil {
		t.Fatalf("GenerateFunctionSchema: %v", err)
	}
	if fn["type"] != "function" {
		t.Fatalf("expected function type")
	}
	decl := fn["function"].(map[string]interface{})
	if decl["name"] != "addHint" || decl["description"] != "Add a hint" {
		t.Fatalf("unexpected declaration %v", decl)
	}

	if _, err := g.GenerateFunctionSchema("bad", "", 42); err == nil {
		t.Fatalf("expected error for non-struct params")
	}
}
