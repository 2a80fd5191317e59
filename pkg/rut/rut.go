package rut

import (
	"fmt"
	"strings"
)

// Normalize limpia un RUT ingresado por el operador: quita puntos, guiones y
// espacios, y deja el dígito verificador en mayúscula. "12.345.678-k" → "12345678K".
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'k' || r == 'K':
			b.WriteRune('K')
		}
	}
	return b.String()
}

// Format devuelve el RUT normalizado en la forma canónica cuerpo-dígito
// ("12345678-K"). Error si el largo no corresponde a un RUT.
func Format(raw string) (string, error) {
	n := Normalize(raw)
	if len(n) < 8 || len(n) > 9 {
		return "", fmt.Errorf("rut: se esperaban 7 u 8 dígitos más dígito verificador, se recibió %q", raw)
	}
	return n[:len(n)-1] + "-" + n[len(n)-1:], nil
}

// Validate verifica el dígito verificador según el algoritmo módulo 11 del
// Registro Civil. Acepta el RUT con o sin puntos y guión.
func Validate(raw string) error {
	n := Normalize(raw)
	if len(n) < 8 || len(n) > 9 {
		return fmt.Errorf("rut: largo inválido (%d caracteres útiles)", len(n))
	}
	body := n[:len(n)-1]
	for _, r := range body {
		if r < '0' || r > '9' {
			return fmt.Errorf("rut: el cuerpo debe ser numérico")
		}
	}
	expected := computeVerifier(body)
	if n[len(n)-1] != expected {
		return fmt.Errorf("rut: dígito verificador inválido: esperado %c, recibido %c", expected, n[len(n)-1])
	}
	return nil
}

// computeVerifier aplica los pesos cíclicos 2..7 de derecha a izquierda.
// resto 11 → '0', resto 10 → 'K'.
func computeVerifier(body string) byte {
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0'
	case 10:
		return 'K'
	default:
		return byte('0' + r)
	}
}
