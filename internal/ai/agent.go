package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Snapshot is the aggregate view of the shop handed to the model. Amounts are
// preformatted strings so the model never does its own rounding.
type Snapshot struct {
	ShopName      string   `json:"shop_name"`
	Currency      string   `json:"currency"`
	Date          string   `json:"date"`
	TotalRevenue  string   `json:"total_revenue"`
	TotalSales    int      `json:"total_sales"`
	TodayRevenue  string   `json:"today_revenue"`
	TodaySales    int      `json:"today_sales"`
	TotalExpenses string   `json:"total_expenses"`
	StockValue    string   `json:"stock_value"`
	StockUnits    int      `json:"stock_units"`
	ProductCount  int      `json:"product_count"`
	LowStock      []string `json:"low_stock"`
	TopProducts   []string `json:"top_products"`
}

// Answer is the structured reply the model must produce.
type Answer struct {
	Response   string  `json:"response" jsonschema:"description=Short plain-text answer for the shopkeeper"`
	Confidence float64 `json:"confidence" jsonschema:"description=0.0 to 1.0"`
}

type AgentService interface {
	Answer(ctx context.Context, question string, snap Snapshot) (*Answer, error)
}

type Agent struct {
	client *openai.Client
	model  string
}

func NewAgent(apiKey, model string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = string(shared.ChatModelGPT4o)
	}
	return &Agent{client: &client, model: model}
}

func (a *Agent) Answer(ctx context.Context, question string, snap Snapshot) (*Answer, error) {
	snapJSON, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	prompt := fmt.Sprintf(`You are the assistant of a small retail shop.
Answer the shopkeeper's question using ONLY the figures below.
Rules:
1. Quote amounts with the currency %s.
2. If the figures cannot answer the question, say so in one sentence.
3. Keep the answer under three sentences.

Shop figures:
%s

Question: %s`, snap.Currency, snapJSON, question)

	schemaMap, err := answerSchema()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "shop_answer",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("An answer to a shopkeeper's question about their figures"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var ans Answer
	if err := json.Unmarshal([]byte(content), &ans); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	ans.Response = strings.TrimSpace(ans.Response)
	if ans.Response == "" {
		return nil, fmt.Errorf("model returned an empty answer")
	}
	return &ans, nil
}

// answerSchema reflects Answer into the map form the Responses API expects.
func answerSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(&Answer{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}
