package service

import (
	"errors"
	"testing"

	"req-entities/internal/domain"
)

func TestCleanLLMJSONResponse(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":  `{"a":1}`,
		"```\n{\"a\":1}\n```":      `{"a":1}`,
		"  {\"a\":1}  ":            `{"a":1}`,
		"\uFEFF{\"a\":1}":          `{"a":1}`,
		"":                         "",
		"   ":                      "",
	}
	for in, want := range cases {
		if got := CleanLLMJSONResponse(in); got != want {
			t.Fatalf("CleanLLMJSONResponse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseEntities_ValidJSON(t *testing.T) {
	raw := `{"actor":"Пользователь","action":"экспортировать","object":"отчёт","result":"делиться","extra":"ignored"}`
	got, err := EntityResponseParser{}.ParseEntities(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := domain.EntityRecord{Actor: "Пользователь", Action: "экспортировать", Object: "отчёт", Result: "делиться"}
	if got != want {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestParseEntities_FencedJSON(t *testing.T) {
	raw := "```json\n{\"actor\":\"a\",\"action\":\"b\",\"object\":\"c\",\"result\":\"d\"}\n```"
	got, err := EntityResponseParser{}.ParseEntities(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Actor != "a" || got.Result != "d" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestParseEntities_WrappedInProse(t *testing.T) {
	raw := "Ответ: {\"actor\":\"a\",\"action\":\"b {x}\",\"object\":\"c\",\"result\":\"d\"} Надеюсь, это помогло."
	got, err := EntityResponseParser{}.ParseEntities(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Action != "b {x}" {
		t.Fatalf("expected braces inside strings preserved, got %+v", got)
	}
}

func TestParseEntities_MissingKey(t *testing.T) {
	_, err := EntityResponseParser{}.ParseEntities(`{"actor":"a","action":"b","object":"c"}`)
	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeysError, got %v", err)
	}
	if len(missing.Keys) != 1 || missing.Keys[0] != "result" {
		t.Fatalf("expected missing result key, got %v", missing.Keys)
	}
}

func TestParseEntities_NullCountsAsMissing(t *testing.T) {
	_, err := EntityResponseParser{}.ParseEntities(`{"actor":"a","action":null,"object":"c","result":"d"}`)
	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeysError, got %v", err)
	}
}

func TestParseEntities_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"plain text":       "Не могу ответить на этот вопрос",
		"non string value": `{"actor":"a","action":"b","object":"c","result":42}`,
		"json array":       `[{"actor":"a","action":"b","object":"c","result":"d"}]`,
		"json string":      `"{\"actor\":\"a\",\"action\":\"b\",\"object\":\"c\",\"result\":\"d\"}"`,
		"truncated":        `{"actor":"a","action":"b"`,
		"capitalized keys": `{"Actor":"a","ACTION":"b","Object":"c","RESULT":"d"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := (EntityResponseParser{}).ParseEntities(raw); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		})
	}
}

func TestParseEntities_KeysAreCaseSensitive(t *testing.T) {
	_, err := EntityResponseParser{}.ParseEntities(`{"actor":"a","Action":"b","object":"c","result":"d"}`)
	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeysError, got %v", err)
	}
	if len(missing.Keys) != 1 || missing.Keys[0] != "action" {
		t.Fatalf("expected only action missing, got %v", missing.Keys)
	}
}

func TestFirstJSONObject(t *testing.T) {
	if got := firstJSONObject(`x {bad {"a":"}"} y`); got != `{"a":"}"}` {
		t.Fatalf("unexpected object: %q", got)
	}
	if got := firstJSONObject("no json here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
