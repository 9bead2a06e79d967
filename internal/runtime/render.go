package runtime

import (
	"fmt"

	"github.com/aretw0/autotutor/pkg/domain"
)

// Project turns a run into its chat transcript. It is pure: the same inputs
// always yield the same entries.
//
// Choices in history show only the selected option on the learner's side.
// Lines show their text and image on the tutor's side. The current node
// becomes a prompt listing every option, or the ending bubble. A current
// line is an invariant violation because fast-forward must run first.
func Project(script *domain.Script, vars domain.Resolver, history []domain.HistoryEntry, current string) ([]domain.TranscriptEntry, error) {
	entries := make([]domain.TranscriptEntry, 0, len(history)+1)

	for _, h := range history {
		node, err := script.Node(h.NodeID)
		if err != nil {
			return nil, err
		}
		switch node.Kind {
		case domain.KindChoice:
			text, err := node.ResolvedOption(h.Selected, vars)
			if err != nil {
				return nil, err
			}
			entries = append(entries, domain.TranscriptEntry{
				NodeID: node.ID,
				Align:  domain.AlignRight,
				Kind:   domain.EntrySelection,
				Text:   text,
			})
		case domain.KindLine:
			text, err := node.ResolvedText(vars)
			if err != nil {
				return nil, err
			}
			entries = append(entries, domain.TranscriptEntry{
				NodeID: node.ID,
				Align:  domain.AlignLeft,
				Kind:   domain.EntryNarration,
				Text:   text,
				Image:  node.Image(),
			})
		default:
			return nil, fmt.Errorf("node %s has unknown kind %q: %w", node.ID, node.Kind, domain.ErrInvariant)
		}
	}

	node, err := script.Node(current)
	if err != nil {
		return nil, err
	}
	tail, err := projectCurrent(node, vars)
	if err != nil {
		return nil, err
	}
	return append(entries, tail), nil
}

func projectCurrent(node domain.Node, vars domain.Resolver) (domain.TranscriptEntry, error) {
	switch {
	case node.IsTerminal():
		text, err := node.ResolvedText(vars)
		if err != nil {
			return domain.TranscriptEntry{}, err
		}
		return domain.TranscriptEntry{
			NodeID: node.ID,
			Align:  domain.AlignLeft,
			Kind:   domain.EntryEnding,
			Text:   text,
		}, nil
	case node.Kind == domain.KindChoice:
		prompt := domain.DefaultPrompt
		if node.Text != "" {
			text, err := node.ResolvedText(vars)
			if err != nil {
				return domain.TranscriptEntry{}, err
			}
			prompt = text
		}
		options := make([]string, len(node.Options))
		for i := range node.Options {
			text, err := node.ResolvedOption(i, vars)
			if err != nil {
				return domain.TranscriptEntry{}, err
			}
			options[i] = text
		}
		return domain.TranscriptEntry{
			NodeID:  node.ID,
			Align:   domain.AlignRight,
			Kind:    domain.EntryPrompt,
			Text:    prompt,
			Options: options,
		}, nil
	case node.Kind == domain.KindLine:
		return domain.TranscriptEntry{}, fmt.Errorf("current node %s is an unconsumed line: %w", node.ID, domain.ErrInvariant)
	default:
		return domain.TranscriptEntry{}, fmt.Errorf("node %s has unknown kind %q: %w", node.ID, node.Kind, domain.ErrInvariant)
	}
}
