package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrSyntax is returned for malformed script documents.
var ErrSyntax = errors.New("script syntax error")

// SyntaxError locates a malformed entry.
type SyntaxError struct {
	Passage string
	Path    string
	Msg     string
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("passage %q: %s", e.Passage, e.Msg)
	}
	return fmt.Sprintf("passage %q at %s: %s", e.Passage, e.Path, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// document is the authored YAML form of a script.
type document struct {
	Title    string    `yaml:"title"`
	Start    string    `yaml:"start"`
	EndText  string    `yaml:"end_text"`
	Passages yaml.Node `yaml:"passages"`
}

// entry is one item of a passage sequence.
// A bare string decodes to an entry with only Line set.
type entry struct {
	ID      string   `mapstructure:"id"`
	Line    string   `mapstructure:"line"`
	Image   string   `mapstructure:"image"`
	When    string   `mapstructure:"when"`
	Choice  *string  `mapstructure:"choice"`
	Options []option `mapstructure:"options"`
	Jump    string   `mapstructure:"jump"`
}

type option struct {
	Text string `mapstructure:"text"`
	Then []any  `mapstructure:"then"`
	Jump string `mapstructure:"jump"`
}

// imageMarkup matches self-closing inline tags such as [img-ball /].
var imageMarkup = regexp.MustCompile(`\[\s*(img[^\s\]/]*)\s*/\]`)

var spaces = regexp.MustCompile(`[ \t]{2,}`)

// Parser compiles passage documents into flat node tables.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML script. Every sequence that runs out without a jump
// continues after its enclosing choice, and top-level passages that run out
// end the lesson at the terminal sentinel.
func (p *Parser) Parse(data []byte) (*domain.Script, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if doc.Passages.Kind != yaml.MappingNode || len(doc.Passages.Content) == 0 {
		return nil, fmt.Errorf("%w: script has no passages", ErrSyntax)
	}

	endText := strings.TrimSpace(doc.EndText)
	if endText == "" {
		endText = domain.DefaultEndText
	}

	c := &compilation{
		endText: endText,
		aliases: make(map[string]string),
		script: &domain.Script{
			Title:   doc.Title,
			Start:   doc.Start,
			EndText: endText,
			Nodes:   make(map[string]domain.Node),
		},
	}

	for i := 0; i+1 < len(doc.Passages.Content); i += 2 {
		name := doc.Passages.Content[i].Value
		var raw []any
		if err := doc.Passages.Content[i+1].Decode(&raw); err != nil {
			return nil, &SyntaxError{Passage: name, Msg: err.Error()}
		}
		if len(raw) == 0 {
			return nil, &SyntaxError{Passage: name, Msg: "passage is empty"}
		}
		if c.script.Start == "" {
			c.script.Start = name
		}
		c.passage = name
		head, err := c.sequence(raw, name, name, domain.EndNodeID)
		if err != nil {
			return nil, err
		}
		if head != name {
			c.aliases[name] = head
		}
	}

	c.add(domain.Node{
		ID:       domain.EndNodeID,
		Kind:     domain.KindLine,
		Text:     endText,
		Terminal: true,
	})
	if c.err != nil {
		return nil, c.err
	}
	c.resolveAliases()
	return c.script, nil
}

type compilation struct {
	script  *domain.Script
	endText string
	passage string
	aliases map[string]string
	err     error
}

// resolveAliases rewrites references to passages that produced no node of
// their own, e.g. a passage holding only a jump.
func (c *compilation) resolveAliases() {
	if len(c.aliases) == 0 {
		return
	}
	resolve := func(id string) string {
		for range len(c.aliases) + 1 {
			target, ok := c.aliases[id]
			if !ok {
				return id
			}
			id = target
		}
		return id
	}
	c.script.Start = resolve(c.script.Start)
	for id, n := range c.script.Nodes {
		n.Next = resolve(n.Next)
		if len(n.Options) > 0 {
			opts := make([]domain.Option, len(n.Options))
			for i, o := range n.Options {
				opts[i] = domain.Option{Text: o.Text, Next: resolve(o.Next)}
			}
			n.Options = opts
		}
		c.script.Nodes[id] = n
	}
}

func (c *compilation) add(n domain.Node) {
	if _, dup := c.script.Nodes[n.ID]; dup && c.err == nil {
		c.err = &SyntaxError{Passage: c.passage, Path: n.ID, Msg: "duplicate node id"}
		return
	}
	c.script.Nodes[n.ID] = n
	c.script.Order = append(c.script.Order, n.ID)
}

// sequence compiles raw entries and returns the ID of the first node.
// firstID names the first node; later ones are derived from prefix.
// cont is where the sequence continues when it runs out.
func (c *compilation) sequence(raw []any, firstID, prefix, cont string) (string, error) {
	entries := make([]entry, len(raw))
	for i, r := range raw {
		e, err := decodeEntry(r)
		if err != nil {
			return "", &SyntaxError{Passage: c.passage, Path: path(prefix, i), Msg: err.Error()}
		}
		if e.Jump != "" && i != len(raw)-1 {
			return "", &SyntaxError{Passage: c.passage, Path: path(prefix, i), Msg: "jump must be the last entry of a sequence"}
		}
		if e.Jump != "" && e.When != "" {
			return "", &SyntaxError{Passage: c.passage, Path: path(prefix, i), Msg: "when is not allowed on a jump"}
		}
		entries[i] = e
	}

	// A trailing jump redirects the continuation instead of producing a node.
	if last := entries[len(entries)-1]; last.Jump != "" {
		cont = normalizeTarget(last.Jump)
		entries = entries[:len(entries)-1]
	}
	if len(entries) == 0 {
		return cont, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		switch {
		case e.ID != "":
			ids[i] = e.ID
		case i == 0 && firstID != "":
			ids[i] = firstID
		default:
			ids[i] = path(prefix, i)
		}
	}

	// Build back to front so each node knows its successor.
	next := cont
	heads := make([]string, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		switch {
		case e.Choice != nil || len(e.Options) > 0:
			if err := c.choice(ids[i], e, next); err != nil {
				return "", err
			}
			heads[i] = ids[i]
		case strings.TrimSpace(e.Line) == c.endText:
			// The authored sentinel line is an alias of the terminal node.
			if e.When != "" {
				return "", &SyntaxError{Passage: c.passage, Path: ids[i], Msg: "when is not allowed on the end line"}
			}
			heads[i] = domain.EndNodeID
		default:
			text, image := extractImage(e.Line)
			if e.Image != "" {
				image = e.Image
			}
			n := domain.Node{
				ID:   ids[i],
				Kind: domain.KindLine,
				Text: text,
				Next: next,
				When: e.When,
			}
			if image != "" {
				n.Directive = &domain.Directive{Type: domain.DirectiveImage, Name: image}
			}
			c.add(n)
			heads[i] = ids[i]
		}
		next = heads[i]
	}
	return heads[0], nil
}

func (c *compilation) choice(id string, e entry, cont string) error {
	if len(e.Options) == 0 {
		return &SyntaxError{Passage: c.passage, Path: id, Msg: "choice has no options"}
	}
	n := domain.Node{
		ID:   id,
		Kind: domain.KindChoice,
		When: e.When,
	}
	if e.When != "" {
		n.Next = cont
	}
	if e.Choice != nil {
		n.Text = *e.Choice
	}
	for j, o := range e.Options {
		if strings.TrimSpace(o.Text) == "" {
			return &SyntaxError{Passage: c.passage, Path: path(id, j), Msg: "option has no text"}
		}
		target := cont
		if o.Jump != "" {
			target = normalizeTarget(o.Jump)
		}
		if len(o.Then) > 0 {
			head, err := c.sequence(o.Then, "", id+"/"+strconv.Itoa(j), target)
			if err != nil {
				return err
			}
			target = head
		}
		n.Options = append(n.Options, domain.Option{Text: o.Text, Next: target})
	}
	c.add(n)
	return nil
}

func decodeEntry(raw any) (entry, error) {
	switch v := raw.(type) {
	case string:
		return entry{Line: v}, nil
	case map[string]any:
		var e entry
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &e,
		})
		if err != nil {
			return entry{}, err
		}
		if err := dec.Decode(v); err != nil {
			return entry{}, err
		}
		kinds := 0
		if e.Line != "" {
			kinds++
		}
		if e.Choice != nil || len(e.Options) > 0 {
			kinds++
		}
		if e.Jump != "" {
			kinds++
		}
		if kinds != 1 {
			return entry{}, errors.New("entry must have exactly one of line, choice or jump")
		}
		return e, nil
	default:
		return entry{}, fmt.Errorf("unsupported entry type %T", raw)
	}
}

func normalizeTarget(target string) string {
	if target == "end" || target == domain.EndNodeID {
		return domain.EndNodeID
	}
	return target
}

// extractImage strips inline image markup and returns the first image name.
func extractImage(line string) (string, string) {
	var image string
	text := imageMarkup.ReplaceAllStringFunc(line, func(m string) string {
		if image == "" {
			image = imageMarkup.FindStringSubmatch(m)[1]
		}
		return ""
	})
	text = spaces.ReplaceAllString(strings.TrimSpace(text), " ")
	return text, image
}

func path(prefix string, i int) string {
	return prefix + "." + strconv.Itoa(i)
}
