package memgw

import (
	"context"
	"fmt"

	"github.com/ougirez/transport-index/internal/domain"
	"github.com/ougirez/transport-index/internal/domain/dto"
)

// Seed fills the gateway with the demo price lists.
func (g *Gateway) Seed(ctx context.Context) error {
	fcl, err := g.InsertCustomer(ctx, dto.NewCustomer{Category: domain.CategoryFCL, Name: "yahu", Location: "https://maps.google.com"})
	if err != nil {
		return fmt.Errorf("seed fcl customer: %w", err)
	}
	lcl, err := g.InsertCustomer(ctx, dto.NewCustomer{Category: domain.CategoryLCL, Name: "summer free zone", Location: "https://maps.google.com"})
	if err != nil {
		return fmt.Errorf("seed lcl customer: %w", err)
	}

	rates := []dto.RateInput{
		{CustomerID: fcl, Supplier: "ppp", Price: "4000"},
		{CustomerID: fcl, Supplier: "urich", Price: "4500"},
		{CustomerID: lcl, Supplier: "ทรัพย์ศิลา", Price: "2000", Note: "6W"},
		{CustomerID: lcl, Supplier: "ทรัพย์ศิลา", Price: "2000", Note: "4W"},
		{CustomerID: lcl, Supplier: "ทรัพย์ศิลา", Price: "2300", Note: "10W"},
	}
	for _, r := range rates {
		if _, err := g.InsertRate(ctx, r); err != nil {
			return fmt.Errorf("seed rate %s: %w", r.Supplier, err)
		}
	}

	if err := g.UpsertDropRate(ctx, dto.DropRateInput{Supplier: "default", Heavy: "2500", Light: "1500", OpenCheck: "0"}); err != nil {
		return fmt.Errorf("seed drop rate: %w", err)
	}

	g.resetCalls()
	return nil
}

func (g *Gateway) resetCalls() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = make(map[string]int)
}
