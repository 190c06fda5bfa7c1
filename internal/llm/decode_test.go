package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privlens/internal/llm"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced with language", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fenced without language", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around object", in: "Here you go: {\"a\":{\"b\":2}} hope it helps", want: `{"a":{"b":2}}`},
		{name: "trailing prose with brace", in: "{\"a\":1}\nNote: use {curly} braces sparingly }", want: `{"a":1}`},
		{name: "trailing second object", in: `{"a":1} {"b":2}`, want: `{"a":1}`},
		{name: "unterminated object", in: `{"a": [1, 2`, wantErr: true},
		{name: "no object", in: "sorry, I cannot help", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := llm.ExtractJSON(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_ErrorKinds(t *testing.T) {
	var out valueSchema

	err := llm.Decode(`{"value": `, &out)
	var malformed *llm.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)

	err = llm.Decode(`{"value": 42}`, &out)
	var schemaErr *llm.SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr, "wrong field type is a schema violation")

	err = llm.Decode(`{"value": ""}`, &out)
	assert.ErrorAs(t, err, &schemaErr)

	require.NoError(t, llm.Decode(`{"value": "x"}`, &out))
	assert.Equal(t, "x", out.Value)
}
