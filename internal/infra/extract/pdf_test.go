package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

func TestPDFParserRejectsEmptyInput(t *testing.T) {
	parser := NewPDFParser()

	_, err := parser.ExtractText(context.Background(), nil)
	require.True(t, apperrors.IsCode(err, "unreadable_document"))
}

func TestPDFParserRejectsGarbage(t *testing.T) {
	parser := NewPDFParser()

	_, err := parser.ExtractText(context.Background(), []byte("this is not a pdf"))
	require.True(t, apperrors.IsCode(err, "unreadable_document"))
}
