package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finefoods-recommender/internal/constants"
	"finefoods-recommender/internal/store"
)

const sampleRecords = `product/productId: B001E4KFG0
review/userId: A3SGXH7AUHU8GW
review/profileName: delmartian
review/helpfulness: 1/1
review/score: 5.0
review/time: 1303862400
review/summary: Good Quality Dog Food
review/text: I have bought several of the canned dog food products.

product/productId: B00813GRG4
review/userId: A1D87F6ZCVE5NK
review/profileName: dll pa
review/helpfulness: 0/0
review/score: 1.0
review/time: 1346976000
review/summary: Not as Advertised
review/text: Product arrived labeled as Jumbo Salted Peanuts.
`

func TestLoader_ParsesAndWritesRecords(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	loader := NewLoader(s)

	stats, err := loader.Load(ctx, strings.NewReader(sampleRecords))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)

	user, err := s.FindUserByID(ctx, "A3SGXH7AUHU8GW")
	require.NoError(t, err)
	assert.Equal(t, "delmartian", user.ProfileName)

	_, err = s.FindProduct(ctx, "B001E4KFG0")
	require.NoError(t, err)

	reviews, err := s.ReviewsForUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	review := reviews[0]
	assert.Equal(t, "B001E4KFG0", review.Product.ProductID)
	assert.Equal(t, 5.0, review.Score)

	// typed keys parse, everything else passes through verbatim
	assert.Equal(t, 5.0, review.Attrs[constants.AttrScore])
	assert.Equal(t, int64(1303862400), review.Attrs[constants.AttrTime])
	assert.Equal(t, "1/1", review.Attrs["helpfulness"])
	assert.Equal(t, "Good Quality Dog Food", review.Attrs["summary"])
	assert.NotEmpty(t, review.Attrs[constants.AttrReviewID])
}

func TestLoader_FlushesTrailingRecordAtEOF(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	loader := NewLoader(s)

	// no blank line after the final record
	input := "product/productId: B000X\nreview/userId: AXYZ\nreview/score: 3.0"
	stats, err := loader.Load(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)

	_, err = s.FindUserByID(ctx, "AXYZ")
	assert.NoError(t, err)
}

func TestLoader_MaxRecordsStopsScan(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	loader := NewLoader(s)
	loader.MaxRecords = 1

	stats, err := loader.Load(ctx, strings.NewReader(sampleRecords))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)

	_, err = s.FindUserByID(ctx, "A1D87F6ZCVE5NK")
	assert.Error(t, err)
}

func TestLoader_RepeatUserIsFindOrCreate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	loader := NewLoader(s)

	input := `product/productId: P1
review/userId: U1
review/profileName: First
review/score: 5.0

product/productId: P2
review/userId: U1
review/profileName: Renamed
review/score: 4.0

`
	stats, err := loader.Load(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)

	user, err := s.FindUserByID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "First", user.ProfileName)

	reviews, err := s.ReviewsForUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestLoader_RecordMissingIdentityFails(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(store.NewMemoryStore())

	input := "review/score: 5.0\n\n"
	_, err := loader.Load(ctx, strings.NewReader(input))
	assert.Error(t, err)
}

func TestParseLine_UnparseableTypedValuesStayStrings(t *testing.T) {
	record := make(map[string]any)
	parseLine("review/score: N/A", record)
	parseLine("review/time: unknown", record)

	assert.Equal(t, "N/A", record[constants.AttrScore])
	assert.Equal(t, "unknown", record[constants.AttrTime])
}
