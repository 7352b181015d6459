package numletras

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEntero(t *testing.T) {
	cases := map[int64]string{
		0:             "cero",
		1:             "uno",
		15:            "quince",
		21:            "veintiuno",
		31:            "treinta y uno",
		100:           "cien",
		101:           "ciento uno",
		999:           "novecientos noventa y nueve",
		1000:          "mil",
		2500:          "dos mil quinientos",
		21000:         "veintiún mil",
		31000:         "treinta y un mil",
		101000:        "ciento un mil",
		1000000:       "un millón",
		1250000:       "un millón doscientos cincuenta mil",
		2000000:       "dos millones",
		21000000:      "veintiún millones",
		1000000000:    "mil millones",
		1000000000000: "un billón",
	}
	for n, want := range cases {
		assert.Equal(t, want, Entero(n), "n=%d", n)
	}
}

func TestMonto(t *testing.T) {
	assert.Equal(t, "dos mil quinientos", Monto(decimal.NewFromInt(2500)))
	assert.Equal(t, "ciento veinte con 50/100", Monto(decimal.RequireFromString("120.50")))
	assert.Equal(t, "uno con 05/100", Monto(decimal.RequireFromString("1.05")))
}
