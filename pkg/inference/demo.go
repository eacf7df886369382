package inference

import (
	"context"

	"github.com/philipparndt/primforge/pkg/model"
)

// Demo is a Generator that ignores the images and returns the built-in sample model
type Demo struct{}

// Generate returns model.Demo relabeled to the requested unit and capped to the request
func (Demo) Generate(ctx context.Context, req Request) (*model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := model.Demo()
	if req.Unit != "" {
		m.Unit = req.Unit
	}
	return Limit(m, req.MaxPrimitives), nil
}
