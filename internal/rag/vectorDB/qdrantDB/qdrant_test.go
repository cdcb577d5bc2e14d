package qdrantDB

import (
	"math"
	"testing"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	assert.Nil(t, buildFilter(nil), "nil filter must be unconstrained")

	empty := buildFilter(&corpusModel.DocumentFilter{})
	require.NotNil(t, empty)
	require.Len(t, empty.Must, 1)
	keywords := empty.Must[0].GetField().GetMatch().GetKeywords().GetStrings()
	assert.Equal(t, []string{corpusModel.NoDocumentSentinel}, keywords)

	selected := buildFilter(&corpusModel.DocumentFilter{DocumentIds: []string{"d1", "d2"}})
	require.NotNil(t, selected)
	cond := selected.Must[0].GetField()
	assert.Equal(t, payloadDocumentId, cond.GetKey())
	assert.Equal(t, []string{"d1", "d2"}, cond.GetMatch().GetKeywords().GetStrings())
}

func TestPayloadRoundTrip(t *testing.T) {
	page := 4
	record := corpusModel.IndexRecord{
		Id:         "c1",
		ChunkId:    "c1",
		DocumentId: "d1",
		Text:       "MFA is enforced for all staff.",
		Page:       &page,
		BBox:       &corpusModel.BBox{X0: 1, Y0: 2, X1: 3, Y1: 4},
	}

	payload, err := qdrant.TryValueMap(toPayload(record))
	require.NoError(t, err)

	hit := fromPayload(payload, 0.8)
	assert.Equal(t, "c1", hit.ChunkId)
	assert.Equal(t, "d1", hit.DocumentId)
	assert.Equal(t, record.Text, hit.Text)
	require.NotNil(t, hit.Page)
	assert.Equal(t, 4, *hit.Page)
	assert.Equal(t, record.BBox, hit.BBox)
	assert.True(t, math.Abs(hit.Distance-0.2) < 1e-9)
}

func TestPayloadWithoutProvenance(t *testing.T) {
	payload, err := qdrant.TryValueMap(toPayload(corpusModel.IndexRecord{Id: "c2", ChunkId: "c2", DocumentId: "d"}))
	require.NoError(t, err)

	hit := fromPayload(payload, 1)
	assert.Nil(t, hit.Page)
	assert.Nil(t, hit.BBox)
	assert.Zero(t, hit.Distance)
}
