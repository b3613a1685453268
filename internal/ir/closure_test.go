package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recmo/olus/internal/token"
)

func TestClosureAnalysisArgumentIsNotFree(t *testing.T) {
	prog := Program[string]{
		Procedures: []Procedure[string]{
			{
				Arguments: []Identifier{{ID: 0, Named: true}, {ID: 1, Named: true}},
				Body:      []Atom[string]{ReferenceAtom[string](token.Span{}, 1)},
			},
		},
	}
	prog.ClosureAnalysis()
	assert.Empty(t, prog.Procedures[0].Closure)
}

func TestClosureAnalysisDirectFreeVariable(t *testing.T) {
	prog := Program[string]{
		Procedures: []Procedure[string]{
			{
				Arguments: []Identifier{{ID: 0, Named: true}, {ID: 1, Named: true}},
				Body:      []Atom[string]{ReferenceAtom[string](token.Span{}, 1)},
			},
			{
				Arguments: []Identifier{{ID: 2, Named: true}, {ID: 3, Named: true}},
				Body: []Atom[string]{
					ReferenceAtom[string](token.Span{}, 0), // calls the first procedure
					ReferenceAtom[string](token.Span{}, 4), // a free variable
				},
			},
		},
	}
	prog.ClosureAnalysis()
	assert.Empty(t, prog.Procedures[0].Closure)
	assert.Equal(t, []uint32{4}, prog.Procedures[1].Closure)
}

func TestClosureAnalysisMutualRecursionShareClosure(t *testing.T) {
	prog := Program[string]{
		Procedures: []Procedure[string]{
			{
				Arguments: []Identifier{{ID: 0, Named: true}, {ID: 1, Named: true}},
				Body:      []Atom[string]{ReferenceAtom[string](token.Span{}, 2)}, // references Q
			},
			{
				Arguments: []Identifier{{ID: 2, Named: true}, {ID: 3, Named: true}},
				Body: []Atom[string]{
					ReferenceAtom[string](token.Span{}, 0), // references P
					ReferenceAtom[string](token.Span{}, 4), // free variable
				},
			},
		},
	}
	prog.ClosureAnalysis()
	assert.Equal(t, []uint32{4}, prog.Procedures[0].Closure)
	assert.Equal(t, []uint32{4}, prog.Procedures[1].Closure)
}
