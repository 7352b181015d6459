// Package numletras spells amounts in Spanish words, as printed on invoices
// ("SON GUARANIES: ...").
package numletras

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var unidades = [...]string{
	"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve",
	"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve",
	"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve",
}

var decenas = [...]string{
	"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa",
}

var centenas = [...]string{
	"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos",
	"seiscientos", "setecientos", "ochocientos", "novecientos",
}

const (
	mil    = 1_000
	millon = 1_000_000
	billon = 1_000_000_000_000
)

// Entero spells n. Amounts of a trillion millions or more fall back to digits.
func Entero(n int64) string {
	switch {
	case n == 0:
		return "cero"
	case n < 0:
		return "menos " + Entero(-n)
	case n >= billon*millon:
		return strconv.FormatInt(n, 10)
	}

	var partes []string
	if b := n / billon; b > 0 {
		if b == 1 {
			partes = append(partes, "un billón")
		} else {
			partes = append(partes, hastaMillon(b, true)+" billones")
		}
	}
	if m := n % billon / millon; m > 0 {
		if m == 1 {
			partes = append(partes, "un millón")
		} else {
			partes = append(partes, hastaMillon(m, true)+" millones")
		}
	}
	if r := n % millon; r > 0 {
		partes = append(partes, hastaMillon(r, false))
	}
	return strings.Join(partes, " ")
}

// Monto spells the integer part of d and appends the cents as "con NN/100"
// when they are not zero.
func Monto(d decimal.Decimal) string {
	d = d.Round(2)
	entero := d.Truncate(0)
	texto := Entero(entero.IntPart())
	cent := d.Sub(entero).Abs().Mul(decimal.NewFromInt(100)).IntPart()
	if cent > 0 {
		texto += " con " + leftPad2(cent) + "/100"
	}
	return texto
}

// hastaMillon spells 1..999999. apocope shortens a trailing "uno" to "un"
// when a noun (mil, millones) follows.
func hastaMillon(n int64, apocope bool) string {
	var partes []string
	if m := n / mil; m > 0 {
		if m == 1 {
			partes = append(partes, "mil")
		} else {
			partes = append(partes, hastaMil(int(m), true)+" mil")
		}
	}
	if r := n % mil; r > 0 {
		partes = append(partes, hastaMil(int(r), apocope))
	}
	return strings.Join(partes, " ")
}

func hastaMil(n int, apocope bool) string {
	if n == 100 {
		return "cien"
	}
	var partes []string
	if c := n / 100; c > 0 {
		partes = append(partes, centenas[c])
	}
	if r := n % 100; r > 0 {
		partes = append(partes, hastaCien(r, apocope))
	}
	return strings.Join(partes, " ")
}

func hastaCien(n int, apocope bool) string {
	if n < 30 {
		if apocope {
			switch n {
			case 1:
				return "un"
			case 21:
				return "veintiún"
			}
		}
		return unidades[n]
	}
	d, u := n/10, n%10
	if u == 0 {
		return decenas[d]
	}
	palabra := unidades[u]
	if apocope && u == 1 {
		palabra = "un"
	}
	return decenas[d] + " y " + palabra
}

func leftPad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
