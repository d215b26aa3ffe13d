// Package gstin valida el GSTIN (Goods and Services Tax Identification Number) indio:
// 15 caracteres con estado, PAN, número de entidad y carácter de control módulo 36.
package gstin

import (
	"fmt"
	"regexp"
	"strings"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// 2 dígitos de estado, PAN (5 letras, 4 dígitos, 1 letra), entidad, 'Z', control.
var format = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Normalize quita espacios y pasa a mayúsculas.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate comprueba formato y carácter de control. Acepta minúsculas.
func Validate(s string) error {
	g := Normalize(s)
	if len(g) != 15 {
		return fmt.Errorf("gstin: debe tener 15 caracteres, se recibieron %d", len(g))
	}
	if !format.MatchString(g) {
		return fmt.Errorf("gstin: formato inválido %q", g)
	}
	expected, err := CheckChar(g)
	if err != nil {
		return err
	}
	if g[14] != expected {
		return fmt.Errorf("gstin: carácter de control inválido: esperado %c, recibido %c", expected, g[14])
	}
	return nil
}

// CheckChar calcula el carácter de control para los 14 primeros caracteres.
// Factores alternos 1 y 2; cada producto se suma como cociente + resto en base 36.
func CheckChar(s string) (byte, error) {
	g := Normalize(s)
	if len(g) < 14 {
		return 0, fmt.Errorf("gstin: se requieren al menos 14 caracteres, se encontraron %d", len(g))
	}
	var sum int
	for i := 0; i < 14; i++ {
		code := strings.IndexByte(alphabet, g[i])
		if code < 0 {
			return 0, fmt.Errorf("gstin: carácter no permitido %q en posición %d", g[i], i+1)
		}
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		p := code * factor
		sum += p/36 + p%36
	}
	return alphabet[(36-sum%36)%36], nil
}

// StateCode devuelve los dos primeros dígitos (código de estado GST).
func StateCode(s string) string {
	g := Normalize(s)
	if len(g) < 2 {
		return ""
	}
	return g[:2]
}
