package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nurpe/liftquote/internal/httpclient"
	"github.com/nurpe/liftquote/internal/model"
)

const systemPrompt = "Eres ingeniero de montaje prefabricado. Redacta alcance/supuestos claros y conservadores; no comprometer sin visita de obra."

type Config struct {
	APIURL string
	APIKey string
	Model  string
}

// Client writes the scope and assumptions paragraph through an
// OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg    Config
	client *httpclient.Client
	log    zerolog.Logger
}

func NewClient(cfg Config, client *httpclient.Client, log zerolog.Logger) *Client {
	return &Client{cfg: cfg, client: client, log: log}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate returns the narrative text. Errors are for the caller to log; a
// quote never depends on the narrative.
func (c *Client) Generate(ctx context.Context, doc model.QuoteDocument) (string, error) {
	req := chatRequest{
		Model:       c.cfg.Model,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(doc)},
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var resp chatResponse
	if err := c.client.PostJSON(ctx, c.cfg.APIURL, headers, req, &resp); err != nil {
		return "", fmt.Errorf("narrative: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("narrative: empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Prompt describes the job the way the estimator saw it.
func Prompt(doc model.QuoteDocument) string {
	project := doc.Customer.Site
	if project == "" {
		project = "(sin nombre)"
	}
	workType := doc.Customer.WorkType
	if workType == "" {
		workType = "(sin especificar)"
	}
	el := doc.Customer.Elements

	var b strings.Builder
	fmt.Fprintf(&b, "Proyecto: %s. Ciudad: %s\n", project, doc.Quote.Meta.JobCity)
	fmt.Fprintf(&b, "Tipo de obra: %s\n", workType)
	b.WriteString("Selección preliminar:\n")
	fmt.Fprintf(&b, "- Peso máx (pieza): %g t · Radio máx: %g m\n", doc.Job.WeightT, doc.Job.RadiusM)
	fmt.Fprintf(&b, "- Clase grúa propuesta: %s\n", doc.Quote.Selection.RecommendedClass)
	fmt.Fprintf(&b, "- Jornadas: %d · Equipos: %d\n", doc.Job.Days, doc.Job.Teams)
	fmt.Fprintf(&b, "- Elementos: vigas=%d, paneles=%d, losas=%d, pilares=%d\n\n",
		el.Beams, el.FacadePanels, el.HollowSlabs, el.Columns)
	b.WriteString("Redacta alcance/supuestos conservadores (orientativo, validar curvas del fabricante, útiles/pluma, accesos y visita).")
	return b.String()
}

// Disabled produces no narrative. Documents omit the section.
type Disabled struct{}

func (Disabled) Generate(context.Context, model.QuoteDocument) (string, error) {
	return "", nil
}
