// Package prompt builds the system instruction for the qualification agent.
//
// Composition is a pure function of its inputs: no clock, no randomness. The
// same tenant and catalog always produce byte-identical output, which keeps
// prompt behavior reviewable and testable.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pulsetrack/whatsapp-agent/internal/model"
)

// DefaultRegister is the language register used for countries without an
// explicit mapping.
const DefaultRegister = "rioplatense neutro"

// Composer renders system prompts for a configurable country → language
// register mapping.
type Composer struct {
	registers map[string]string
}

// NewComposer creates a composer. A nil map means every country uses the
// default register.
func NewComposer(registers map[string]string) *Composer {
	return &Composer{registers: registers}
}

// Register returns the language register for a country.
func (c *Composer) Register(country string) string {
	if r, ok := c.registers[country]; ok {
		return r
	}
	return DefaultRegister
}

// Compose builds the system instruction from tenant identity and the bounded
// catalog. properties is the capped subset; total is the true active count so
// the model knows more listings exist beyond the cap.
func (c *Composer) Compose(tenant *model.Tenant, properties []model.Property, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Eres un agente inmobiliario profesional de %s en %s.\n\n", tenant.Name, tenant.Country)

	fmt.Fprintf(&b, "PROPIEDADES DISPONIBLES (%d de %d activas):\n", len(properties), total)
	for _, p := range properties {
		b.WriteString(formatProperty(&p))
		b.WriteByte('\n')
	}
	if total > len(properties) {
		fmt.Fprintf(&b, "Hay %d propiedades activas en total; si ninguna de las listadas encaja, ofrece consultar el resto del catálogo.\n", total)
	}

	b.WriteString(`
TU TRABAJO:
1. Saluda cordialmente y preséntate como asistente de ` + tenant.Name + `
2. Primera pregunta: "¿Estás buscando COMPRAR o ALQUILAR?"
   - Si alquilar: "¿Para TEMPORADA o ANUAL?"
3. Pregunta: "¿Ya tenés alguna propiedad vista (link o dirección)?"
4. Si tiene propiedad vista: identificar la referencia y ofrecer coordinar visita
5. Si busca asesoramiento: calificar según operación

PREGUNTAS DE CALIFICACIÓN:
- VENTAS: zona, presupuesto USD, tipo, dormitorios, para vivir/inversión
- ALQUILERES TEMPORARIOS: período, personas, zona, presupuesto, servicios
- ALQUILERES ANUALES: presupuesto mensual USD, zona, dormitorios, garaje, mascotas

CUANDO CALIFICADO: "Perfecto, te voy a conectar con uno de nuestros asesores"

IMPORTANTE:
- Respuestas BREVES (2-3 líneas)
- Lenguaje ` + c.Register(tenant.Country) + ` natural
- Precios formato: "U$S 350.000" (venta), "U$S 18.000 por temporada" (temporario), "U$S 1.200 por mes" (anual)
- NO inventar propiedades que no están en la lista
- Si preguntan por una propiedad que no existe, ofrecer alternativas similares`)

	return b.String()
}

// formatProperty renders one compact catalog line. Descriptions are elided on
// purpose; the compact form keeps the prompt bounded.
func formatProperty(p *model.Property) string {
	var b strings.Builder

	fmt.Fprintf(&b, "- Ref %s | %s en %s | %s", p.Reference, p.Type, p.Location, p.Operation.Label())
	if p.Bedrooms > 0 {
		fmt.Fprintf(&b, " | %d dorm", p.Bedrooms)
	}
	b.WriteString(" | ")
	b.WriteString(FormatPrice(p.Price, p.Operation, p.Rental))

	if p.Rental != nil {
		if len(p.Rental.IncludedServices) > 0 {
			fmt.Fprintf(&b, " | incluye %s", strings.Join(p.Rental.IncludedServices, ", "))
		}
		if p.Rental.PetsAllowed {
			b.WriteString(" | acepta mascotas")
		}
		if p.Rental.Garage {
			b.WriteString(" | garaje")
		}
	}

	return b.String()
}

// FormatPrice renders a price with the house currency convention:
// "U$S 350.000" for sales, with a period suffix for seasonal rentals and
// "por mes" for annual ones.
func FormatPrice(price float64, op model.Operation, rental *model.RentalTerms) string {
	formatted := "U$S " + groupThousands(int64(price))
	switch op {
	case model.OperationSeasonalRent:
		if rental != nil && rental.Period != "" {
			return formatted + " por " + rental.Period
		}
		return formatted + " por temporada"
	case model.OperationAnnualRent:
		return formatted + " por mes"
	}
	return formatted
}

// groupThousands inserts dot separators: 1234567 → "1.234.567".
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ".")
}
