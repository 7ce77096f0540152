package validation

import (
	"testing"

	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     *string        `json:"name" validate:"required,notblank"`
	Price    *float64       `json:"price" validate:"required,gt=0"`
	Category *string        `json:"category" validate:"required,notblank,category"`
	Kind     model.Category `json:"kind" validate:"omitempty,category"`
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestValid(t *testing.T) {
	v := New()
	err := v.Struct(sample{Name: strPtr("Café"), Price: floatPtr(2.5), Category: strPtr("Bebidas Calientes")})
	assert.NoError(t, err)
}

func TestMessages(t *testing.T) {
	v := New()
	tests := []struct {
		name string
		in   sample
		want string
	}{
		{"all missing", sample{}, "name is required; price is required; category is required"},
		{"blank name", sample{Name: strPtr("  "), Price: floatPtr(1), Category: strPtr("Postres")}, "name is required"},
		{"zero price", sample{Name: strPtr("a"), Price: floatPtr(0), Category: strPtr("Postres")}, "price must be greater than 0"},
		{"negative price", sample{Name: strPtr("a"), Price: floatPtr(-3), Category: strPtr("Postres")}, "price must be greater than 0"},
		{"unknown category", sample{Name: strPtr("a"), Price: floatPtr(1), Category: strPtr("Sopas")},
			"category must be one of: Desayunos, Bebidas Calientes, Bebidas Frías, Postres"},
		{"named category type", sample{Name: strPtr("a"), Price: floatPtr(1), Category: strPtr("Postres"), Kind: "Sopas"},
			"kind must be one of: Desayunos, Bebidas Calientes, Bebidas Frías, Postres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestFieldMessage(t *testing.T) {
	v := New()
	err := v.Var(0.0, "gt=0")
	require.Error(t, err)
	assert.Equal(t, "price must be greater than 0", FieldMessage("price", err))
}
