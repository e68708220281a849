package app

import (
	"context"
	"fmt"
	"strings"

	"shop-backoffice/internal/ai"
	"shop-backoffice/internal/logging"
)

const chatHelpText = "I can help with stock, sales, profit analysis. Ask me anything!"

// Chat answers from fixed keyword routes first. Questions no route matches go
// to the assistant when one is configured; any assistant failure falls back
// to the help text.
func (s *appService) Chat(ctx context.Context, query string) (*ChatResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	cur := s.Shop.Currency

	switch {
	case containsAny(q, "stock", "inventory"):
		if strings.Contains(q, "low") {
			return s.chatLowStock(ctx)
		}
		items, err := s.Inventory.ListStock(ctx)
		if err != nil {
			return nil, err
		}
		units := 0
		for _, it := range items {
			units += it.Quantity
		}
		return keyword(fmt.Sprintf("Total: %d products, %d items in stock", len(items), units)), nil

	case containsAny(q, "sales", "revenue"):
		if strings.Contains(q, "today") {
			count, amount, err := s.Reports.GetTodaySales(ctx, s.Now())
			if err != nil {
				return nil, err
			}
			return keyword(fmt.Sprintf("Today: %d sales, %s %s revenue", count, cur, amount.StringFixed(2))), nil
		}
		t, err := s.Reports.GetTotals(ctx)
		if err != nil {
			return nil, err
		}
		return keyword(fmt.Sprintf("Total: %d sales, %s %s revenue", t.SaleCount, cur, t.Revenue.StringFixed(2))), nil

	case strings.Contains(q, "profit"):
		t, err := s.Reports.GetTotals(ctx)
		if err != nil {
			return nil, err
		}
		profit := t.Revenue.Sub(t.Expenses).Sub(t.StockValue)
		return keyword(fmt.Sprintf("Profit: %s %s (Revenue: %s %s, Expenses: %s %s, Stock: %s %s)",
			cur, profit.StringFixed(2),
			cur, t.Revenue.StringFixed(2),
			cur, t.Expenses.StringFixed(2),
			cur, t.StockValue.StringFixed(2))), nil
	}

	if s.Agent == nil || q == "" {
		return &ChatResult{Response: chatHelpText, Source: ChatSourceHelp}, nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		logging.LogError(s.Logger, "app", "Chat", "building assistant snapshot", nil, err)
		return &ChatResult{Response: chatHelpText, Source: ChatSourceHelp}, nil
	}
	ans, err := s.Agent.Answer(ctx, query, *snap)
	if err != nil {
		logging.LogError(s.Logger, "app", "Chat", "assistant answer", map[string]string{"query": query}, err)
		return &ChatResult{Response: chatHelpText, Source: ChatSourceHelp}, nil
	}
	return &ChatResult{Response: ans.Response, Source: ChatSourceAssistant}, nil
}

func (s *appService) chatLowStock(ctx context.Context) (*ChatResult, error) {
	low, err := s.Inventory.LowStock(ctx, s.Shop.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return keyword("All items well stocked!"), nil
	}
	parts := make([]string, len(low))
	for i, it := range low {
		parts[i] = fmt.Sprintf("%s (%d left)", it.ProductName, it.Quantity)
	}
	return keyword("Low stock: " + strings.Join(parts, ", ")), nil
}

func (s *appService) snapshot(ctx context.Context) (*ai.Snapshot, error) {
	now := s.Now()
	t, err := s.Reports.GetTotals(ctx)
	if err != nil {
		return nil, err
	}
	todayCount, todayAmount, err := s.Reports.GetTodaySales(ctx, now)
	if err != nil {
		return nil, err
	}
	items, err := s.Inventory.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.Inventory.LowStock(ctx, s.Shop.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	top, err := s.Reports.GetTopSellers(ctx, 5)
	if err != nil {
		return nil, err
	}

	snap := &ai.Snapshot{
		ShopName:      s.Shop.Name,
		Currency:      s.Shop.Currency,
		Date:          now.Format("2006-01-02"),
		TotalRevenue:  t.Revenue.StringFixed(2),
		TotalSales:    t.SaleCount,
		TodayRevenue:  todayAmount.StringFixed(2),
		TodaySales:    todayCount,
		TotalExpenses: t.Expenses.StringFixed(2),
		StockValue:    t.StockValue.StringFixed(2),
		StockUnits:    t.StockQuantity,
		ProductCount:  len(items),
	}
	for _, it := range low {
		snap.LowStock = append(snap.LowStock, fmt.Sprintf("%s (%d left)", it.ProductName, it.Quantity))
	}
	for _, ts := range top {
		snap.TopProducts = append(snap.TopProducts, fmt.Sprintf("%s (%d sold)", ts.ProductName, ts.SoldQuantity))
	}
	return snap, nil
}

func keyword(response string) *ChatResult {
	return &ChatResult{Response: response, Source: ChatSourceKeyword}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
