package htmlview

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/nurpe/liftquote/internal/model"
)

const (
	cellStyle  template.CSS = "padding:8px;border:1px solid #e5e7eb"
	fontFamily template.CSS = "font-family:system-ui,-apple-system,Segoe UI,Roboto"
)

var funcs = template.FuncMap{
	"euros": model.Euros,
	"qty":   func(d decimal.Decimal) string { return d.String() },
}

var templates = template.Must(template.New("views").Funcs(funcs).Parse(`
{{define "table"}}<table style="width:100%;border-collapse:collapse;{{.FontFamily}};font-size:14px">
  <thead>
    <tr style="background:#f3f4f6">
      <th style="text-align:left;{{.Cell}}">Partida</th>
      <th style="text-align:left;{{.Cell}}">Descripción</th>
      <th style="text-align:right;{{.Cell}}">Ud</th>
      <th style="text-align:right;{{.Cell}}">Cant.</th>
      <th style="text-align:right;{{.Cell}}">P. Unit</th>
      <th style="text-align:right;{{.Cell}}">Importe</th>
    </tr>
  </thead>
  <tbody>{{range .Lines}}
    <tr>
      <td style="{{$.Cell}}"><strong>{{.Code}}</strong> {{.Name}}</td>
      <td style="{{$.Cell}}">{{.Description}}</td>
      <td style="{{$.Cell}};text-align:right">{{.Unit}}</td>
      <td style="{{$.Cell}};text-align:right">{{qty .Quantity}}</td>
      <td style="{{$.Cell}};text-align:right">{{euros .UnitPrice}}</td>
      <td style="{{$.Cell}};text-align:right"><strong>{{euros .Amount}}</strong></td>
    </tr>{{end}}
  </tbody>
  <tfoot>
    <tr><td colspan="4" style="border:none"></td><td style="{{.Cell}};text-align:right"><strong>Subtotal</strong></td><td style="{{.Cell}};text-align:right">{{euros .Summary.Subtotal}}</td></tr>
    <tr><td colspan="4" style="border:none"></td><td style="{{.Cell}};text-align:right"><strong>{{.VATLabel}}</strong></td><td style="{{.Cell}};text-align:right">{{euros .Summary.Tax}}</td></tr>
    <tr><td colspan="4" style="border:none"></td><td style="{{.Cell}};text-align:right"><strong>TOTAL</strong></td><td style="{{.Cell}};text-align:right"><strong>{{euros .Summary.Total}}</strong></td></tr>
  </tfoot>
</table>{{end}}

{{define "brand"}}<div style="margin-bottom:12px">
    <div style="font-size:12px;font-weight:800;letter-spacing:.08em;color:#F59E0B">{{.}}</div>
    <div style="font-size:11px;color:#6b7280">Estructuras · Transporte · Grúas</div>
  </div>{{end}}

{{define "customer"}}<div style="{{.FontFamily}};color:#0a0a0a">
  {{template "brand" .Company}}
  <p>Hola {{.Greeting}},</p>
  <p>Gracias por contactar con nosotros. Adjuntamos tu <strong>{{.DocumentName}}</strong> en PDF.</p>
  <p>Un técnico de obra se pondrá en contacto contigo a la mayor brevedad para afinar detalles.</p>
  <hr style="border:none;border-top:1px solid #e5e7eb;margin:16px 0"/>
  <p style="font-size:12px;color:#6b7280">{{.Company}} · Atención: Lun-Vie 08:00-19:00</p>
</div>{{end}}

{{define "internal"}}<div style="{{.FontFamily}};color:#0a0a0a">
  {{template "brand" .Company}}
  <p><strong>(Copia empresa)</strong></p>
  {{with .Advisory}}<p style="color:#DC2626"><strong>Aviso:</strong> {{.}}</p>{{end}}
  <p><strong>Cliente:</strong> {{.Customer.Name}} · <strong>Contacto:</strong> {{.Customer.Contact}} · <strong>Email:</strong> {{.Customer.Email}}</p>
  <p><strong>Ciudad:</strong> {{.Meta.JobCity}}{{if not .Meta.AvailableLocally}} (grúa desde {{.Meta.SupplyCity}}){{end}} · <strong>Obra:</strong> {{or .Customer.Site "-"}}</p>
  <p><strong>Peso/Radio:</strong> {{.Weight}} t / {{.Radius}} m · <strong>Clase sugerida:</strong> {{.Class}}</p>
  {{if .Priced}}<hr style="border:none;border-top:1px solid #e5e7eb;margin:16px 0"/>
  <p><strong>Costes:</strong> Cuadrillas {{euros .Costs.Crew.Cost}}, Grúa {{if .Costs.Crane.Cost.IsZero}}A convenir{{else}}{{euros .Costs.Crane.Cost}}{{end}}, Coord. {{euros .Costs.Transport.Cost}}</p>
  <p><strong>PVP:</strong> Subtotal {{euros .Summary.Subtotal}}, IVA {{euros .Summary.Tax}}, Total {{euros .Summary.Total}}</p>{{end}}
</div>{{end}}
`))

type tableData struct {
	FontFamily template.CSS
	Cell       template.CSS
	Lines      []model.CostLine
	Summary    model.Summary
	VATLabel   string
}

// PublicTable renders line items and totals as the HTML table the quote form
// shows next to the PDF.
func PublicTable(doc model.QuoteDocument) (string, error) {
	return render("table", tableData{
		FontFamily: fontFamily,
		Cell:       cellStyle,
		Lines:      doc.Quote.LineItems,
		Summary:    doc.Quote.Summary,
		VATLabel:   doc.VATLabel(),
	})
}

type customerData struct {
	FontFamily   template.CSS
	Company      string
	Greeting     string
	DocumentName string
}

func CustomerEmail(doc model.QuoteDocument) (string, error) {
	greeting := doc.Customer.Contact
	if greeting == "" {
		greeting = doc.Customer.Name
	}
	documentName := "presupuesto orientativo"
	if doc.Quote.Kind == model.QuoteKindAdvisory {
		documentName = "resumen de solicitud"
	}
	return render("customer", customerData{
		FontFamily:   fontFamily,
		Company:      doc.Company,
		Greeting:     greeting,
		DocumentName: documentName,
	})
}

type internalData struct {
	FontFamily template.CSS
	Company    string
	Advisory   string
	Customer   model.Customer
	Meta       model.Meta
	Weight     string
	Radius     string
	Class      string
	Priced     bool
	Costs      model.CostBasis
	Summary    model.Summary
}

func InternalEmail(doc model.InternalDocument) (string, error) {
	data := internalData{
		FontFamily: fontFamily,
		Company:    doc.Company,
		Customer:   doc.Customer,
		Meta:       doc.Quote.Meta,
		Weight:     decimal.NewFromFloat(doc.Job.WeightT).String(),
		Radius:     decimal.NewFromFloat(doc.Job.RadiusM).String(),
		Class:      doc.Quote.Selection.RecommendedClass.String(),
		Priced:     doc.Priced(),
		Costs:      doc.CostBasis,
		Summary:    doc.Quote.Summary,
	}
	if doc.Quote.Advisory != nil {
		data.Advisory = *doc.Quote.Advisory
	}
	return render("internal", data)
}

// Subjects returns the customer and internal subject lines.
func Subjects(doc model.QuoteDocument) (customer, internal string) {
	name := doc.Customer.Name
	if doc.Quote.Kind == model.QuoteKindAdvisory {
		return "Resumen de solicitud: " + name,
			"[Interno] Resumen (en estudio): " + name
	}
	return "Presupuesto orientativo: " + name,
		fmt.Sprintf("[Interno] Descompuesto: %s (%s)", name, doc.Quote.Meta.JobCity)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
