package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

func testTenant() *model.Tenant {
	return &model.Tenant{
		ID:      "tenant-1",
		Name:    "Fincas del Este",
		Country: "Uruguay",
	}
}

func testProperties() []model.Property {
	return []model.Property{
		{
			Reference: "VE-101",
			Type:      "Casa",
			Location:  "Punta del Este",
			Operation: model.OperationSale,
			Bedrooms:  3,
			Price:     350000,
			Active:    true,
		},
		{
			Reference: "AT-202",
			Type:      "Apartamento",
			Location:  "La Barra",
			Operation: model.OperationSeasonalRent,
			Bedrooms:  2,
			Price:     18000,
			Active:    true,
			Rental: &model.RentalTerms{
				Period:           "enero",
				IncludedServices: []string{"wifi", "limpieza"},
				PetsAllowed:      true,
			},
		},
		{
			Reference: "AA-303",
			Type:      "Apartamento",
			Location:  "Maldonado",
			Operation: model.OperationAnnualRent,
			Bedrooms:  1,
			Price:     1200,
			Active:    true,
			Rental:    &model.RentalTerms{Garage: true},
		},
	}
}

func TestComposerCompose(t *testing.T) {
	c := NewComposer(map[string]string{"Uruguay": "uruguayo", "Argentina": "argentino"})
	tenant := testTenant()
	props := testProperties()

	out := c.Compose(tenant, props, len(props))

	assert.Contains(t, out, "Eres un agente inmobiliario profesional de Fincas del Este en Uruguay.")
	assert.Contains(t, out, "PROPIEDADES DISPONIBLES (3 de 3 activas):")
	assert.Contains(t, out, "- Ref VE-101 | Casa en Punta del Este | Venta | 3 dorm | U$S 350.000")
	assert.Contains(t, out, "- Ref AT-202 | Apartamento en La Barra | Alquiler Temporario | 2 dorm | U$S 18.000 por enero | incluye wifi, limpieza | acepta mascotas")
	assert.Contains(t, out, "- Ref AA-303 | Apartamento en Maldonado | Alquiler Anual | 1 dorm | U$S 1.200 por mes | garaje")
	assert.Contains(t, out, "¿Estás buscando COMPRAR o ALQUILAR?")
	assert.Contains(t, out, "¿Para TEMPORADA o ANUAL?")
	assert.Contains(t, out, "Lenguaje uruguayo natural")
	assert.Contains(t, out, "NO inventar propiedades")
	assert.NotContains(t, out, "si ninguna de las listadas encaja")
}

func TestComposerComposeDeterministic(t *testing.T) {
	c := NewComposer(nil)
	tenant := testTenant()
	props := testProperties()

	first := c.Compose(tenant, props, len(props))
	second := c.Compose(tenant, props, len(props))

	assert.Equal(t, first, second)
}

func TestComposerComposeOverflowLine(t *testing.T) {
	c := NewComposer(nil)
	out := c.Compose(testTenant(), testProperties(), 27)

	assert.Contains(t, out, "PROPIEDADES DISPONIBLES (3 de 27 activas):")
	assert.Contains(t, out, "Hay 27 propiedades activas en total")
}

func TestComposerRegister(t *testing.T) {
	c := NewComposer(map[string]string{"Uruguay": "uruguayo", "Argentina": "argentino"})

	assert.Equal(t, "uruguayo", c.Register("Uruguay"))
	assert.Equal(t, "argentino", c.Register("Argentina"))
	assert.Equal(t, DefaultRegister, c.Register("Chile"))
	assert.Equal(t, DefaultRegister, c.Register(""))

	nilMap := NewComposer(nil)
	assert.Equal(t, DefaultRegister, nilMap.Register("Uruguay"))
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		op     model.Operation
		rental *model.RentalTerms
		want   string
	}{
		{"sale with thousands", 350000, model.OperationSale, nil, "U$S 350.000"},
		{"sale with millions", 1250000, model.OperationSale, nil, "U$S 1.250.000"},
		{"sale under a thousand", 900, model.OperationSale, nil, "U$S 900"},
		{"seasonal with period", 18000, model.OperationSeasonalRent, &model.RentalTerms{Period: "enero"}, "U$S 18.000 por enero"},
		{"seasonal without period", 18000, model.OperationSeasonalRent, nil, "U$S 18.000 por temporada"},
		{"annual", 1200, model.OperationAnnualRent, nil, "U$S 1.200 por mes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price, tt.op, tt.rental))
		})
	}
}

func TestComposeEmptyCatalog(t *testing.T) {
	c := NewComposer(nil)
	out := c.Compose(testTenant(), nil, 0)

	require.Contains(t, out, "PROPIEDADES DISPONIBLES (0 de 0 activas):")
	// Script survives even with nothing to list.
	assert.True(t, strings.Contains(out, "TU TRABAJO:"))
}
