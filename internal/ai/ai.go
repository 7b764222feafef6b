// Package ai talks to the external generative-model services that classify
// lawsuit filings. Every backend receives the same system instruction and
// output schema and returns a validated models.AnalysisResult.
package ai

import (
	"context"

	"github.com/adala/case-intake/internal/models"
)

// Classifier issues exactly one classification request per call. It never
// retries.
type Classifier interface {
	Classify(ctx context.Context, in Input) (models.AnalysisResult, error)
}

// Input is either a TextInput or a DocumentInput.
type Input interface {
	isInput()
}

// TextInput carries a single narrative built from the manual intake form.
type TextInput struct {
	Text string
}

// DocumentInput carries a scanned filing (image or PDF). Instruction is sent
// as a text part after the document; DefaultDocumentInstruction is used when
// it is empty.
type DocumentInput struct {
	Data        []byte
	MIMEType    string
	Instruction string
}

func (TextInput) isInput()     {}
func (DocumentInput) isInput() {}

func (d DocumentInput) instruction() string {
	if d.Instruction == "" {
		return DefaultDocumentInstruction
	}
	return d.Instruction
}
