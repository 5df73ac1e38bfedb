package answers

import (
	"github.com/pkg/errors"
)

// Kind identifies the shape of an answer returned to the rendering layer.
type Kind string

const (
	KindText                Kind = "text"
	KindImage               Kind = "image"
	KindUnsignedTransaction Kind = "unsigned_transaction"
	KindRawPieChart         Kind = "raw_pie_chart"
	KindError               Kind = "error"
)

// IsValid reports whether k is one of the closed set of answer kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindText, KindImage, KindUnsignedTransaction, KindRawPieChart, KindError:
		return true
	}
	return false
}

// PieChart is the payload for raw pie chart answers.
type PieChart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Title  string    `json:"title"`
}

// NewPieChart validates that labels and values line up.
func NewPieChart(labels []string, values []float64, title string) (PieChart, error) {
	if len(labels) != len(values) {
		return PieChart{}, errors.Errorf("pie chart labels/values length mismatch: %d != %d", len(labels), len(values))
	}
	return PieChart{Labels: labels, Values: values, Title: title}, nil
}

// Answer is the tagged envelope carried back to callers. Content shape is
// enforced by the constructors below: string for text and image, an object or
// string for unsigned transactions, PieChart for raw pie charts. Tool-level
// error messages are rendered through NewText; KindError exists as a
// classification result.
type Answer struct {
	Kind    Kind `json:"type"`
	Content any  `json:"content"`
}

// NewText returns a plain text answer.
func NewText(text string) Answer {
	return Answer{Kind: KindText, Content: text}
}

// NewImage returns an answer carrying an encoded image.
func NewImage(image string) Answer {
	return Answer{Kind: KindImage, Content: image}
}

// NewUnsignedTransaction returns an answer carrying an unsigned transaction
// payload, either a call object or an encoded string.
func NewUnsignedTransaction(tx any) Answer {
	return Answer{Kind: KindUnsignedTransaction, Content: tx}
}

// NewRawPieChart returns an answer carrying chart data.
func NewRawPieChart(chart PieChart) Answer {
	return Answer{Kind: KindRawPieChart, Content: chart}
}
