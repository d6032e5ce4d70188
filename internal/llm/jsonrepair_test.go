package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRepairJSONValidAsIs(t *testing.T) {
	raw, err := RepairJSON(`{"summary": "fine"}`)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["summary"] != "fine" {
		t.Errorf("out = %v", out)
	}
}

func TestRepairJSONLiteralNewlinesInStrings(t *testing.T) {
	input := "{\"summary\": \"line one\nline two\"}"
	raw, err := RepairJSON(input)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["summary"] != "line one\nline two" {
		t.Errorf("summary = %q", out["summary"])
	}
}

func TestRepairJSONFencedBlock(t *testing.T) {
	input := "Here is the result:\n```json\n{\"goal\": \"launch\"}\n```\nHope that helps!"
	raw, err := RepairJSON(input)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["goal"] != "launch" {
		t.Errorf("out = %v", out)
	}
}

func TestRepairJSONFencedBlockWithLiteralNewline(t *testing.T) {
	// Both repairs at once: surrounding prose, a fence, and a raw newline
	// inside a string value.
	input := "Sure!\n```json\n{\"summary\": \"first\nsecond\"}\n```"
	raw, err := RepairJSON(input)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["summary"] != "first\nsecond" {
		t.Errorf("summary = %q", out["summary"])
	}
}

func TestRepairJSONBraceSpan(t *testing.T) {
	input := `The analysis follows. {"painPoint": "time"} That is all.`
	raw, err := RepairJSON(input)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["painPoint"] != "time" {
		t.Errorf("out = %v", out)
	}
}

func TestRepairJSONEscapedSequencesUntouched(t *testing.T) {
	// Already-escaped \n must not be double-escaped.
	input := `{"summary": "one\ntwo", "tab": "a\tb"}`
	raw, err := RepairJSON(input)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["summary"] != "one\ntwo" || out["tab"] != "a\tb" {
		t.Errorf("out = %v", out)
	}
}

func TestRepairJSONUnrepairable(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"no json here at all",
		"{ definitely broken",
	} {
		if _, err := RepairJSON(input); !errors.Is(err, ErrUnrepairable) {
			t.Errorf("RepairJSON(%q) err = %v, want ErrUnrepairable", input, err)
		}
	}
}
