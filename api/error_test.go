package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "single field",
			raw:  `[{"loc":["body","email"],"msg":"invalid"}]`,
			want: "email: invalid",
		},
		{
			name: "multiple fields joined with semicolon",
			raw:  `[{"loc":["body","email"],"msg":"invalid"},{"loc":["body","password"],"msg":"required"}]`,
			want: "email: invalid; password: required",
		},
		{
			name: "nested location dot joined",
			raw:  `[{"loc":["body","tags",0],"msg":"too long"}]`,
			want: "tags.0: too long",
		},
		{
			name: "location with only the body segment",
			raw:  `[{"loc":["body"],"msg":"field required"}]`,
			want: "field required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := joinValidationErrors(json.RawMessage(tt.raw))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinValidationErrorsRejectsNonList(t *testing.T) {
	_, ok := joinValidationErrors(json.RawMessage(`"Feedback not found"`))
	assert.False(t, ok)
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindServerError, KindOf(errors.New("boom")))
	assert.Equal(t, KindValidationError, KindOf(&Error{Kind: KindValidationError}))
}
