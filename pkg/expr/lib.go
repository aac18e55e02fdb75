package expr

import (
	"github.com/google/cel-go/cel"
)

// DocumentVar is the variable a document is bound to in selectors.
const DocumentVar = "doc"

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		cel.OptionalTypes(),
		cel.Variable(DocumentVar, cel.DynType),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{
		cel.EvalOptions(cel.OptOptimize),
	}
}
