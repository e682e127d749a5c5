package graph_test

import (
	"strings"
	"testing"

	"github.com/triagekit/triage/internal/presentation/graph"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		tiers    []graph.Tier
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Tier Chain",
			tiers: []graph.Tier{
				{Name: "junior", MaxLevel: 1},
				{Name: "senior", MaxLevel: 3},
			},
			contains: []string{
				"graph LR",
				"junior[/\"junior (level <= 1)\"/]",
				"senior[/\"senior (level <= 3)\"/]",
				"request --> junior",
				"junior --> senior",
				"senior -- \"pass\" --> unhandled",
			},
		},
		{
			name:  "Empty Chain Falls Straight Through",
			tiers: nil,
			contains: []string{
				"request --> unhandled",
			},
		},
		{
			name: "Overlay Highlights Accepting Tier",
			tiers: []graph.Tier{
				{Name: "on-call lead", MaxLevel: 5},
			},
			overlay: &graph.Overlay{AcceptedBy: "on-call lead"},
			contains: []string{
				"on_call_lead[/\"on-call lead (level <= 5)\"/]",
				"class on_call_lead accepted;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.tiers, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}
