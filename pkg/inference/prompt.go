package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/philipparndt/primforge/pkg/model"
)

// Completer sends a prompt to a language model and returns the reply text
type Completer interface {
	Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error)
}

// ImageCompleter is a Completer that can also attach images to the user message
type ImageCompleter interface {
	Completer
	CompleteWithImages(ctx context.Context, model, systemPrompt, userMessage string, images [][]byte) (string, error)
}

// Fallback tries Primary first and Secondary when Primary fails
type Fallback struct {
	Primary   Completer
	Secondary Completer
}

// Complete calls Primary.Complete and falls back to Secondary.Complete on error
func (f *Fallback) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	s, err := f.Primary.Complete(ctx, model, systemPrompt, userMessage)
	if err != nil && f.Secondary != nil {
		return f.Secondary.Complete(ctx, model, systemPrompt, userMessage)
	}
	return s, err
}

// PromptGenerator asks a Completer for primitives and decodes the reply
type PromptGenerator struct {
	Client Completer
	Model  string
}

// Generate prompts the client and returns the decoded model, capped to req.MaxPrimitives
func (g *PromptGenerator) Generate(ctx context.Context, req Request) (*model.Model, error) {
	unit := req.Unit
	if unit == "" {
		unit = model.DefaultUnit
	}
	system := SystemPrompt(req.MaxPrimitives)
	user := UserPrompt(req, unit)

	var (
		reply string
		err   error
	)
	if ic, ok := g.Client.(ImageCompleter); ok && len(req.Images) > 0 {
		reply, err = ic.CompleteWithImages(ctx, g.Model, system, user, req.Images)
	} else {
		reply, err = g.Client.Complete(ctx, g.Model, system, user)
	}
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}

	m, err := Decode(reply, unit)
	if err != nil {
		return nil, err
	}
	return Limit(m, req.MaxPrimitives), nil
}

// SystemPrompt describes the reply schema
func SystemPrompt(maxPrimitives int) string {
	var sb strings.Builder
	sb.WriteString("You decompose the object shown in the images into simple solids. ")
	sb.WriteString("Reply with exactly one JSON object and nothing else. No markdown, no explanation.\n\n")
	sb.WriteString("Schema:\n")
	sb.WriteString(`{"primitives":[{"type":"box|cylinder|pyramid|sphere","position":[x,y,z],"rotation":[rx,ry,rz],"scale":[sx,sy,sz],"color":"#rrggbb"}]}` + "\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Every solid is a unit shape centered on its position, Y is up.\n")
	sb.WriteString("- scale is the full size along each axis, rotation is in radians applied X, then Y, then Z.\n")
	sb.WriteString("- Cylinders and pyramids stand along Y.\n")
	if maxPrimitives > 0 {
		fmt.Fprintf(&sb, "- Use at most %d primitives.\n", maxPrimitives)
	}
	return sb.String()
}

// UserPrompt states the scale reference and image count of a request
func UserPrompt(req Request, unit model.Unit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Working unit: %s.\n", unit)
	if req.ReferenceLength > 0 {
		fmt.Fprintf(&sb, "The largest dimension of the object is %g %s.\n", req.ReferenceLength, unit)
	}
	fmt.Fprintf(&sb, "Attached images: %d.\n", len(req.Images))
	return sb.String()
}
