package gstin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	for _, g := range []string{"27AAPFU0939F1ZV", "24AAACC1206D1ZM", " 27aapfu0939f1zv "} {
		assert.NoError(t, Validate(g), g)
	}
}

func TestValidate_WrongCheckChar(t *testing.T) {
	err := Validate("29ABCDE1234F1Z5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esperado W")
}

func TestValidate_BadFormat(t *testing.T) {
	cases := map[string]string{
		"corto":         "27AAPFU0939F1Z",
		"sin Z":         "27AAPFU0939F1XV",
		"estado letras": "AAAAPFU0939F1ZV",
		"entidad 0":     "27AAPFU0939F0ZV",
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Validate(g))
		})
	}
}

func TestCheckChar(t *testing.T) {
	c, err := CheckChar("27AAPFU0939F1Z")
	require.NoError(t, err)
	assert.Equal(t, byte('V'), c)

	_, err = CheckChar("27AAP")
	assert.Error(t, err)

	_, err = CheckChar("27AAPFU0939F1-")
	assert.Error(t, err)
}

func TestStateCode(t *testing.T) {
	assert.Equal(t, "27", StateCode("27AAPFU0939F1ZV"))
	assert.Equal(t, "", StateCode("2"))
}
