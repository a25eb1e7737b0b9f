package tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nachoal/lingo-tutor-go/session"
)

func TestResult_FlattensData(t *testing.T) {
	res := Succeed(map[string]interface{}{"wordID": "merci", "alreadyExists": false})

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(res.String()), &decoded); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if decoded["success"] != true || decoded["wordID"] != "merci" || decoded["alreadyExists"] != false {
		t.Fatalf("unexpected encoding %v", decoded)
	}
	if _, ok := decoded["error"]; ok {
		t.Fatalf("successful result must not carry an error key")
	}
}

func TestResult_FailureOmitsCode(t *testing.T) {
	res := Fail(NewToolError(CodeStateConflict, "no active conversation to end"))
	if res.String() != `{"error":"no active conversation to end","success":false}` {
		t.Fatalf("unexpected encoding %s", res.String())
	}

	var back Result
	if err := json.Unmarshal([]byte(res.String()), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Success || back.Error != "no active conversation to end" || back.Data != nil {
		t.Fatalf("unexpected decoded result %+v", back)
	}
}

func TestAsToolError_Classification(t *testing.T) {
	if got := AsToolError(session.ErrSessionActive).Code; got != CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %s", got)
	}
	if got := AsToolError(session.ErrMissingWord).Code; got != CodeValidationFailed {
		t.Fatalf("expected VALIDATION_FAILED, got %s", got)
	}
	te := NewToolError(CodeInternal, "boom")
	if got := AsToolError(errors.Join(te)); got.Code != CodeInternal {
		t.Fatalf("expected wrapped ToolError to be preserved, got %s", got.Code)
	}
}
