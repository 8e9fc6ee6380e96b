package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_Latin1(t *testing.T) {
	// "Azúcar" en ISO-8859-1: ú = 0xFA
	raw := []byte("nombre;descripcion;unidad\nAz\xfacar;refinada;kg\nHarina;;kg\n;sin nombre;kg\nharina;repetida;kg\n")

	rows, err := parseCatalog(bytes.NewReader(raw), true)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Azúcar", rows[0].Name)
	assert.Equal(t, "refinada", rows[0].Description)
	assert.Equal(t, "Harina", rows[1].Name)
	assert.Equal(t, "kg", rows[1].Unit)
}

func TestParseCatalog_IDsEstables(t *testing.T) {
	in := "nombre;descripcion;unidad\nHarina;;kg\n"
	a, err := parseCatalog(strings.NewReader(in), false)
	require.NoError(t, err)
	b, err := parseCatalog(strings.NewReader(in), false)
	require.NoError(t, err)
	assert.Equal(t, a[0].ID, b[0].ID)
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, []catalogRow{{ID: "x", Name: "Pan d'oro", Unit: "und"}}))
	assert.Contains(t, buf.String(), "'Pan d''oro'")
	assert.Contains(t, buf.String(), "ON CONFLICT (id) DO NOTHING")
}

func TestParseCatalog_Vacio(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
