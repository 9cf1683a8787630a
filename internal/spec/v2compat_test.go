package spec

import (
	"strings"
	"testing"
)

func TestV2Compat_MultipleBodyMerged(t *testing.T) {
	t.Parallel()
	in := []byte(`swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /x:
    post:
      parameters:
      - in: body
        name: a
        required: true
        schema: { type: string }
      - in: body
        name: b
        schema: { type: integer }
      responses: { '200': { description: ok } }
`)
	out, changed, err := preprocessV2ForCompatibility(in)
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if !changed {
		t.Fatalf("expected changes")
	}
	doc, err := decodeDocument(out)
	if err != nil {
		t.Fatalf("decode rewritten doc: %v", err)
	}
	item, _ := doc.Paths.Get("/x")
	op := item.Operation(MethodPost)
	if op == nil || len(op.Parameters) != 1 {
		t.Fatalf("expected a single merged parameter, got:\n%s", out)
	}
	body := op.Parameters[0]
	if body.In != InBody || body.Name != "body" || body.Schema == nil {
		t.Fatalf("unexpected merged parameter: %+v", body)
	}
	if got := body.Schema.Properties.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected properties [a b] in order, got %v", got)
	}
	if !body.Schema.IsRequired("a") || body.Schema.IsRequired("b") {
		t.Fatalf("required list not carried over: %v", body.Schema.Required)
	}
}

func TestV2Compat_BodyAndFormData_ToFormData(t *testing.T) {
	t.Parallel()
	in := []byte(`swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /upload:
    post:
      parameters:
      - in: body
        name: desc
        schema: { type: string }
      - in: formData
        name: file
        type: file
        required: true
      responses: { '200': { description: ok } }
`)
	out, changed, err := preprocessV2ForCompatibility(in)
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if !changed {
		t.Fatalf("expected changes")
	}
	s := string(out)
	if strings.Contains(s, "in: body") {
		t.Fatalf("expected no body params after conversion to formData, got:\n%s", s)
	}
	if !strings.Contains(s, "multipart/form-data") {
		t.Fatalf("expected consumes multipart/form-data, got:\n%s", s)
	}
}

func TestV2Compat_NoChange(t *testing.T) {
	t.Parallel()
	in := []byte(`swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /x:
    post:
      parameters:
      - in: body
        name: a
        schema: { type: string }
      responses: { '200': { description: ok } }
`)
	out, changed, err := preprocessV2ForCompatibility(in)
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if changed || string(out) != string(in) {
		t.Fatalf("expected input to be returned unchanged")
	}
}
