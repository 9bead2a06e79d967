package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/autotutor/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds an overlay from a runner state.
func OverlayFromState(s *domain.State) *GraphOverlay {
	if s == nil {
		return nil
	}
	o := &GraphOverlay{CurrentNode: s.Current}
	for _, h := range s.History {
		o.VisitedNodes = append(o.VisitedNodes, h.NodeID)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a script.
// It applies semantic styling:
// - Start: ((Circle))
// - Choice: {Rhombus}
// - End: ([Stadium])
// - Line: [Rectangle], labelled with its image when it has one
// A guarded choice gets a dotted fall-through edge.
func GenerateMermaid(script *domain.Script, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range script.List() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == script.Start:
			opener, closer = "((", "))"
		case node.IsTerminal():
			opener, closer = "([", "])"
		case node.Kind == domain.KindChoice:
			opener, closer = "{", "}"
		}

		label := node.ID
		if img := node.Image(); img != "" {
			label = fmt.Sprintf("%s <br/> 🖼 %s", node.ID, img)
		}
		if node.When != "" {
			label = fmt.Sprintf("%s <br/> if %s", label, escape(node.When))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		switch node.Kind {
		case domain.KindLine:
			if node.Next != "" {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(node.Next)))
			}
		case domain.KindChoice:
			for i, o := range node.Options {
				sb.WriteString(fmt.Sprintf("    %s -- \"%d. %s\" --> %s\n", safeID, i+1, escape(o.Text), sanitizeMermaidID(o.Next)))
			}
			if node.Next != "" {
				sb.WriteString(fmt.Sprintf("    %s -. \"else skip\" .-> %s\n", safeID, sanitizeMermaidID(node.Next)))
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "$", "_")
	return s
}
