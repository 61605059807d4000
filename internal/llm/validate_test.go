package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"nil schema accepts text", nil, "plain words", false},
		{"valid", reviewSchema, `{"verdict":"pass","feedback":"good"}`, false},
		{"missing field", reviewSchema, `{"verdict":"pass"}`, true},
		{"bad enum", reviewSchema, `{"verdict":"ok","feedback":"x"}`, true},
		{"extra field", reviewSchema, `{"verdict":"pass","feedback":"x","score":1}`, true},
		{"not json", reviewSchema, `verdict: pass`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var invalid *ErrInvalidResponse
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestValidateResponse_BrokenSchema(t *testing.T) {
	broken := &Schema{Name: "broken", Definition: map[string]any{"type": 12}}
	err := validateResponse(broken, json.RawMessage(`{}`))
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}
