package sales

// Rate porcentaje entero round(num/den*100) con redondeo half-up.
// Devuelve 0 si den es 0 y nunca sale de [0,100].
func Rate(num, den int) int {
	if den <= 0 || num <= 0 {
		return 0
	}
	r := (num*200 + den) / (2 * den)
	if r > 100 {
		return 100
	}
	return r
}
