package graph

import (
	"fmt"
	"strings"
)

// Tier describes one escalation handler for visualization.
type Tier struct {
	Name     string
	MaxLevel int
}

// Overlay highlights the tier that accepted the last dispatched request.
type Overlay struct {
	AcceptedBy string
}

// GenerateMermaid produces a Mermaid flowchart of the dispatch chain.
// Requests enter on the left and fall through the tiers in consultation
// order; each tier either resolves the request or passes it on, and the
// final fall-through lands in the unhandled sink.
func GenerateMermaid(tiers []Tier, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    request((\"request\"))\n")

	prev := "request"
	for _, tier := range tiers {
		safeID := sanitizeMermaidID(tier.Name)
		sb.WriteString(fmt.Sprintf("    %s[/\"%s (level <= %d)\"/]\n", safeID, tier.Name, tier.MaxLevel))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, safeID))
		sb.WriteString(fmt.Sprintf("    %s -- \"accept\" --> resolved\n", safeID))
		prev = safeID
	}

	sb.WriteString("    resolved((\"resolved\"))\n")
	sb.WriteString("    unhandled((\"unhandled\"))\n")
	if len(tiers) > 0 {
		sb.WriteString(fmt.Sprintf("    %s -- \"pass\" --> unhandled\n", prev))
	} else {
		sb.WriteString("    request --> unhandled\n")
	}

	if overlay != nil && overlay.AcceptedBy != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high-contrast regardless of theme
		sb.WriteString("    classDef accepted fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s accepted;\n", sanitizeMermaidID(overlay.AcceptedBy)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
