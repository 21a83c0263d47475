package mcp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/peek-cli/internal/adapters/driven/blob"
	"github.com/custodia-labs/peek-cli/internal/adapters/driven/source/fixture"
	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
	"github.com/custodia-labs/peek-cli/internal/core/services"
)

// fixturePorts wires the MCP server to an in-memory source so tool
// calls run the real preview pipeline.
func fixturePorts(t *testing.T, populate func(src *fixture.Source)) *Ports {
	t.Helper()

	src := fixture.NewSource()
	if populate != nil {
		populate(src)
	}

	return &Ports{
		NewPreview: func() (driving.PreviewService, error) {
			store, err := blob.NewStore(t.TempDir())
			require.NoError(t, err)
			return services.NewPreviewService(src, store)
		},
	}
}

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) ExtractText(_ string) (string, error) {
	return m.text, m.err
}

func indexedFixture(content string) domain.IndexedContent {
	return domain.IndexedContent{
		Content:            content,
		SemanticIdentifier: "notes.txt",
		SourceType:         "file",
		ChunkCount:         1,
	}
}
