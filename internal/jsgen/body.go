package jsgen

import (
	"prism/internal/model"
	"prism/internal/translate"
)

// BodyEmitter writes the statements of one member body at the cursor's
// current level.
type BodyEmitter interface {
	EmitBody(ctx *translate.Context, owner *model.Type, m *model.Member, body *model.Body) error
}

// Verbatim writes each statement on its own line.
type Verbatim struct{}

func (Verbatim) EmitBody(ctx *translate.Context, _ *model.Type, _ *model.Member, body *model.Body) error {
	for _, stmt := range body.Statements {
		ctx.Cursor.WriteLine(stmt)
	}
	return nil
}

// AsyncLowerer turns an async method body into continuation-passing code.
// It runs with the method's AsyncState open and may record captured
// locals, jump targets and the dispatch switch there.
type AsyncLowerer interface {
	Lower(ctx *translate.Context, st *translate.AsyncState, owner *model.Type, m *model.Method) error
}
