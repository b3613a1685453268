package ir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recmo/olus/internal/token"
)

func TestFprintFormatsArgumentsClosureAndBody(t *testing.T) {
	src := "main x print"
	prog := Program[string]{
		Source: src,
		Procedures: []Procedure[string]{
			{
				Arguments: []Identifier{
					named(0, src, "main", 0),
					named(1, src, "x", 5),
				},
				Closure: []uint32{2},
				Body: []Atom[string]{
					BuiltinAtom(token.NewSpan(7, 12), "print-tag"),
					NumberAtom[string](token.Span{}, 5),
					StringAtom[string](token.Span{}, "hi"),
					ReferenceAtom[string](token.Span{}, 1),
				},
			},
		},
	}

	var buf bytes.Buffer
	Fprint(&buf, &prog)
	assert.Equal(t, "main_0 x_1; _2: @print 5 \"hi\" x_1\n", buf.String())
}

func TestFprintMultipleProceduresOneLineEach(t *testing.T) {
	src := "main helper"
	prog := Program[string]{
		Source: src,
		Procedures: []Procedure[string]{
			{
				Arguments: []Identifier{named(0, src, "main", 0)},
				Body:      []Atom[string]{ReferenceAtom[string](token.Span{}, 2)},
			},
			{
				Arguments: []Identifier{named(2, src, "helper", 5)},
				Body:      []Atom[string]{NumberAtom[string](token.Span{}, 1)},
			},
		},
	}

	var buf bytes.Buffer
	Fprint(&buf, &prog)
	assert.Equal(t, "main_0: helper_2\nhelper_2: 1\n", buf.String())
}
