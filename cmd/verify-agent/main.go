// verify-agent sends one question with a fixed snapshot to the configured
// model and prints the structured answer. Use it to check the API key and
// model name before enabling the assistant.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"shop-backoffice/internal/ai"
)

func main() {
	_ = godotenv.Load() // Load .env if present

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o"
	}

	agent := ai.NewAgent(apiKey, model)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	snap := ai.Snapshot{
		ShopName:      "Demo Shop",
		Currency:      "PKR",
		Date:          time.Now().Format("2006-01-02"),
		TotalRevenue:  "125000.00",
		TotalSales:    84,
		TodayRevenue:  "4300.00",
		TodaySales:    3,
		TotalExpenses: "31000.00",
		StockValue:    "56000.00",
		StockUnits:    213,
		ProductCount:  5,
		LowStock:      []string{"Dish Soap (8 left)"},
		TopProducts:   []string{"Sugar 1kg (120 sold)", "Cooking Oil 1L (64 sold)"},
	}
	question := "Which product should I reorder first and why?"

	fmt.Printf("QUESTION: %s\n", question)
	ans, err := agent.Answer(ctx, question, snap)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("\n--- ANSWER ---\n")
	fmt.Printf("Confidence: %.2f\n", ans.Confidence)
	fmt.Println(ans.Response)
}
